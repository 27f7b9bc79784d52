package handlers

import (
	"context"
	"testing"

	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/models"
)

func TestHandleEventStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ev := env.createEvent(t, "Spring Gala", 10, models.EventPublished)
	if _, err := env.service.Create(ctx, env.userID, ev.ID, booking.Options{Member: true}); err != nil {
		t.Fatalf("failed to book: %v", err)
	}

	if _, err := env.statsHandler.HandleEventStats(ctx, &EventStatsRequest{AuthInput: env.user, EventID: ev.ID}); err == nil {
		t.Error("expected error for non-admin")
	}

	resp, err := env.statsHandler.HandleEventStats(ctx, &EventStatsRequest{AuthInput: env.admin, EventID: ev.ID})
	if err != nil {
		t.Fatalf("HandleEventStats returned error: %v", err)
	}
	if resp.Body.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Body.Total)
	}
	if resp.Body.Remaining != 9 {
		t.Errorf("expected remaining 9, got %d", resp.Body.Remaining)
	}
	if resp.Body.Occupancy != 10.0 {
		t.Errorf("expected occupancy 10.0, got %v", resp.Body.Occupancy)
	}
	if resp.Body.Members != 1 {
		t.Errorf("expected 1 member, got %d", resp.Body.Members)
	}

	if _, err := env.statsHandler.HandleEventStats(ctx, &EventStatsRequest{AuthInput: env.admin, EventID: 999}); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestHandleAllStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createEvent(t, "Spring Gala", 10, models.EventPublished)
	env.createEvent(t, "Autumn Trip", 20, models.EventDraft)

	if _, err := env.statsHandler.HandleAllStats(ctx, &AllStatsRequest{AuthInput: env.user}); err == nil {
		t.Error("expected error for non-admin")
	}

	resp, err := env.statsHandler.HandleAllStats(ctx, &AllStatsRequest{AuthInput: env.admin})
	if err != nil {
		t.Fatalf("HandleAllStats returned error: %v", err)
	}
	if len(resp.Body) != 2 {
		t.Errorf("expected stats for 2 events, got %d", len(resp.Body))
	}
}
