package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/models"
)

type BusSlotHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewBusSlotHandler(db *gorm.DB, authHandler *auth.AuthHandler) *BusSlotHandler {
	return &BusSlotHandler{db: db, authHandler: authHandler}
}

type BusSlotSummary struct {
	ID          uint   `json:"id"`
	EventID     *uint  `json:"event_id"`
	Direction   string `json:"direction"`
	Capacity    int    `json:"capacity"`
	Remaining   int    `json:"remaining"`
	Description string `json:"description"`
	Vehicle     string `json:"vehicle"`
}

func (h *BusSlotHandler) slotSummary(ctx context.Context, slot models.BusSlot) (BusSlotSummary, error) {
	column := "outbound_slot_id"
	if slot.Direction == models.DirectionReturn {
		column = "return_slot_id"
	}
	var reserved int64
	if err := h.db.WithContext(ctx).Model(&models.Reservation{}).
		Where(column+" = ?", slot.ID).Count(&reserved).Error; err != nil {
		return BusSlotSummary{}, err
	}
	remaining := slot.Capacity - int(reserved)
	if remaining < 0 {
		remaining = 0
	}
	return BusSlotSummary{
		ID:          slot.ID,
		EventID:     slot.EventID,
		Direction:   slot.Direction,
		Capacity:    slot.Capacity,
		Remaining:   remaining,
		Description: slot.Description,
		Vehicle:     slot.Vehicle,
	}, nil
}

type busSlotFields struct {
	EventID     *uint  `json:"event_id" doc:"Owning event; omit for a detached slot"`
	Direction   string `json:"direction" doc:"outbound or return" required:"true"`
	Capacity    int    `json:"capacity" doc:"Total seats, must be positive" required:"true"`
	Description string `json:"description" doc:"Unique free-text label, e.g. 'Dep. 8:30 Rennes > Paris'" required:"true"`
	Vehicle     string `json:"vehicle"`
}

func applyBusSlotFields(ctx context.Context, db *gorm.DB, slot *models.BusSlot, fields busSlotFields) error {
	if fields.Direction != models.DirectionOutbound && fields.Direction != models.DirectionReturn {
		return huma.Error400BadRequest("Direction must be outbound or return")
	}
	if fields.Capacity <= 0 {
		return huma.Error400BadRequest("Capacity must be a positive integer")
	}
	if fields.Description == "" {
		return huma.Error400BadRequest("Description is required")
	}
	if fields.EventID != nil {
		var ev models.Event
		if err := db.WithContext(ctx).First(&ev, *fields.EventID).Error; err != nil {
			return huma.Error404NotFound("Event not found")
		}
	}
	slot.EventID = fields.EventID
	slot.Direction = fields.Direction
	slot.Capacity = fields.Capacity
	slot.Description = fields.Description
	slot.Vehicle = fields.Vehicle
	return nil
}

type CreateBusSlotRequest struct {
	auth.AuthInput
	Body busSlotFields
}

type BusSlotResponse struct {
	Body BusSlotSummary
}

func (h *BusSlotHandler) HandleCreateBusSlot(ctx context.Context, input *CreateBusSlotRequest) (*BusSlotResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var slot models.BusSlot
	if err := applyBusSlotFields(ctx, h.db, &slot, input.Body); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Create(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("A bus slot with this description already exists")
		}
		return nil, huma.Error500InternalServerError("Failed to create bus slot: " + err.Error())
	}

	summary, err := h.slotSummary(ctx, slot)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load bus slot")
	}
	return &BusSlotResponse{Body: summary}, nil
}

type UpdateBusSlotRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body busSlotFields
}

func (h *BusSlotHandler) HandleUpdateBusSlot(ctx context.Context, input *UpdateBusSlotRequest) (*BusSlotResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var slot models.BusSlot
	if err := h.db.WithContext(ctx).First(&slot, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Bus slot not found")
	}
	if err := applyBusSlotFields(ctx, h.db, &slot, input.Body); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Save(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("A bus slot with this description already exists")
		}
		return nil, huma.Error500InternalServerError("Failed to update bus slot: " + err.Error())
	}

	summary, err := h.slotSummary(ctx, slot)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load bus slot")
	}
	return &BusSlotResponse{Body: summary}, nil
}

type DeleteBusSlotRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *BusSlotHandler) HandleDeleteBusSlot(ctx context.Context, input *DeleteBusSlotRequest) (*struct{}, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var slot models.BusSlot
	if err := h.db.WithContext(ctx).First(&slot, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Bus slot not found")
	}

	// Reservations referencing the slot keep their seat at the event;
	// only the bus binding is cleared.
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reservation{}).
			Where("outbound_slot_id = ?", slot.ID).Update("outbound_slot_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reservation{}).
			Where("return_slot_id = ?", slot.ID).Update("return_slot_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&slot).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete bus slot: " + err.Error())
	}
	return nil, nil
}

type ListBusSlotsRequest struct {
	EventID uint `path:"id"`
}

type ListBusSlotsResponse struct {
	Body []BusSlotSummary
}

func (h *BusSlotHandler) HandleListEventBusSlots(ctx context.Context, input *ListBusSlotsRequest) (*ListBusSlotsResponse, error) {
	var ev models.Event
	if err := h.db.WithContext(ctx).First(&ev, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var slots []models.BusSlot
	if err := h.db.WithContext(ctx).Where("event_id = ?", ev.ID).Order("id").Find(&slots).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bus slots")
	}

	summaries := make([]BusSlotSummary, 0, len(slots))
	for _, slot := range slots {
		summary, err := h.slotSummary(ctx, slot)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to load bus slots")
		}
		summaries = append(summaries, summary)
	}
	return &ListBusSlotsResponse{Body: summaries}, nil
}
