package handlers

import (
	"context"
	"testing"

	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/models"
)

func TestHandleCreateBusSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ev := env.createEvent(t, "Spring Gala", 50, models.EventPublished)
	slot := env.createSlot(t, ev.ID, models.DirectionOutbound, "Dep. 8:30", 30)
	if slot.Remaining != 30 {
		t.Errorf("expected 30 remaining seats, got %d", slot.Remaining)
	}

	// Duplicate description is rejected.
	req := CreateBusSlotRequest{AuthInput: env.admin}
	eventID := ev.ID
	req.Body.EventID = &eventID
	req.Body.Direction = models.DirectionReturn
	req.Body.Description = "Dep. 8:30"
	req.Body.Capacity = 30
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected conflict for duplicate description")
	}

	// Only administrators may create slots.
	req.AuthInput = env.user
	req.Body.Description = "Ret. 23:30"
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected error for non-admin")
	}
}

func TestHandleCreateBusSlotValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := CreateBusSlotRequest{AuthInput: env.admin}
	req.Body.Direction = "sideways"
	req.Body.Description = "Dep. 8:30"
	req.Body.Capacity = 10
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected error for unknown direction")
	}

	req.Body.Direction = models.DirectionOutbound
	req.Body.Capacity = 0
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected error for zero capacity")
	}

	req.Body.Capacity = 10
	req.Body.Description = ""
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected error for empty description")
	}

	req.Body.Description = "Dep. 8:30"
	missing := uint(999)
	req.Body.EventID = &missing
	if _, err := env.busHandler.HandleCreateBusSlot(ctx, &req); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestHandleDeleteBusSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ev := env.createEvent(t, "Spring Gala", 50, models.EventPublished)
	slot := env.createSlot(t, ev.ID, models.DirectionOutbound, "Dep. 8:30", 30)

	slotID := slot.ID
	res, err := env.service.Create(ctx, env.userID, ev.ID, booking.Options{OutboundSlotID: &slotID})
	if err != nil {
		t.Fatalf("failed to book: %v", err)
	}

	if _, err := env.busHandler.HandleDeleteBusSlot(ctx, &DeleteBusSlotRequest{AuthInput: env.admin, ID: slot.ID}); err != nil {
		t.Fatalf("HandleDeleteBusSlot returned error: %v", err)
	}

	// The reservation keeps its seat at the event, without the bus.
	var kept models.Reservation
	if err := env.db.First(&kept, res.ID).Error; err != nil {
		t.Fatalf("expected reservation to survive slot deletion: %v", err)
	}
	if kept.OutboundSlotID != nil {
		t.Error("expected outbound slot reference to be cleared")
	}

	if _, err := env.busHandler.HandleDeleteBusSlot(ctx, &DeleteBusSlotRequest{AuthInput: env.admin, ID: slot.ID}); err == nil {
		t.Error("expected error for already deleted slot")
	}
}

func TestHandleListEventBusSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ev := env.createEvent(t, "Spring Gala", 50, models.EventPublished)
	env.createSlot(t, ev.ID, models.DirectionOutbound, "Dep. 8:30", 30)
	env.createSlot(t, ev.ID, models.DirectionReturn, "Ret. 23:30", 30)

	resp, err := env.busHandler.HandleListEventBusSlots(ctx, &ListBusSlotsRequest{EventID: ev.ID})
	if err != nil {
		t.Fatalf("HandleListEventBusSlots returned error: %v", err)
	}
	if len(resp.Body) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(resp.Body))
	}
	if resp.Body[0].Direction != models.DirectionOutbound {
		t.Errorf("expected outbound slot first, got %q", resp.Body[0].Direction)
	}

	if _, err := env.busHandler.HandleListEventBusSlots(ctx, &ListBusSlotsRequest{EventID: 999}); err == nil {
		t.Error("expected error for unknown event")
	}
}
