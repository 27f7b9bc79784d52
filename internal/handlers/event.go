package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/models"
)

type EventHandler struct {
	db          *gorm.DB
	service     *booking.Service
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, service *booking.Service, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, service: service, authHandler: authHandler}
}

// EventSummary is the wire representation of an event, with the
// remaining seats derived from live reservation counts.
type EventSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Date           time.Time `json:"date"`
	Capacity       int       `json:"capacity"`
	Remaining      int       `json:"remaining"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	BasePrice      string    `json:"base_price"`
	DriverPrice    string    `json:"driver_price"`
	MemberDiscount string    `json:"member_discount"`
}

func (h *EventHandler) eventSummary(ctx context.Context, ev models.Event) (EventSummary, error) {
	remaining, err := h.service.Remaining(ctx, ev.ID)
	if err != nil {
		return EventSummary{}, err
	}
	return EventSummary{
		ID:             ev.ID,
		Title:          ev.Title,
		Description:    ev.Description,
		Address:        ev.Address,
		City:           ev.City,
		Date:           ev.Date,
		Capacity:       ev.Capacity,
		Remaining:      remaining,
		Category:       ev.Category,
		Status:         ev.Status,
		BasePrice:      ev.BasePrice.StringFixed(2),
		DriverPrice:    ev.DriverPrice.StringFixed(2),
		MemberDiscount: ev.MemberDiscount.StringFixed(2),
	}, nil
}

type eventFields struct {
	Title          string    `json:"title" doc:"Event title" required:"true"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Date           time.Time `json:"date" doc:"Date of the event" required:"true"`
	Capacity       int       `json:"capacity" doc:"Total seats, must be positive" required:"true"`
	Category       string    `json:"category"`
	Status         string    `json:"status" doc:"draft, published, completed or cancelled"`
	BasePrice      float64   `json:"base_price"`
	DriverPrice    float64   `json:"driver_price" doc:"Flat rate for designated drivers"`
	MemberDiscount float64   `json:"member_discount"`
}

func validEventStatus(status string) bool {
	switch status {
	case models.EventDraft, models.EventPublished, models.EventCompleted, models.EventCancelled:
		return true
	}
	return false
}

func applyEventFields(ev *models.Event, fields eventFields) error {
	if fields.Title == "" {
		return huma.Error400BadRequest("Event title is required")
	}
	if fields.Capacity <= 0 {
		return huma.Error400BadRequest("Capacity must be a positive integer")
	}
	if fields.BasePrice < 0 || fields.DriverPrice < 0 || fields.MemberDiscount < 0 {
		return huma.Error400BadRequest("Prices cannot be negative")
	}
	status := fields.Status
	if status == "" {
		status = models.EventDraft
	}
	if !validEventStatus(status) {
		return huma.Error400BadRequest("Unknown event status: " + fields.Status)
	}
	ev.Title = fields.Title
	ev.Description = fields.Description
	ev.Address = fields.Address
	ev.City = fields.City
	ev.Date = fields.Date
	ev.Capacity = fields.Capacity
	ev.Category = fields.Category
	ev.Status = status
	ev.BasePrice = decimal.NewFromFloat(fields.BasePrice)
	ev.DriverPrice = decimal.NewFromFloat(fields.DriverPrice)
	ev.MemberDiscount = decimal.NewFromFloat(fields.MemberDiscount)
	return nil
}

type CreateEventRequest struct {
	auth.AuthInput
	Body eventFields
}

type EventResponse struct {
	Body EventSummary
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	adminID, err := h.authHandler.RequireAdmin(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	ev := models.Event{CreatedByID: &adminID}
	if err := applyEventFields(&ev, input.Body); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event: " + err.Error())
	}

	summary, err := h.eventSummary(ctx, ev)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventResponse{Body: summary}, nil
}

type UpdateEventRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body eventFields
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var ev models.Event
	if err := h.db.WithContext(ctx).First(&ev, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}
	if err := applyEventFields(&ev, input.Body); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Save(&ev).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event: " + err.Error())
	}

	summary, err := h.eventSummary(ctx, ev)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventResponse{Body: summary}, nil
}

type DeleteEventRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleDeleteEvent removes an event. Its reservations go with it; its
// bus slots are detached, not deleted.
func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *DeleteEventRequest) (*struct{}, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var ev models.Event
	if err := h.db.WithContext(ctx).First(&ev, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", ev.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BusSlot{}).Where("event_id = ?", ev.ID).Update("event_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&ev).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete event: " + err.Error())
	}
	return nil, nil
}

type ListEventsRequest struct {
	Status string `query:"status" doc:"Filter by status; defaults to published events only"`
}

type ListEventsResponse struct {
	Body []EventSummary
}

// HandleListEvents is the public event listing. Without a filter it
// shows published events; administrators pass an explicit status (or
// "all") to see the rest.
func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	q := h.db.WithContext(ctx).Order("date")
	switch input.Status {
	case "":
		q = q.Where("status = ?", models.EventPublished)
	case "all":
	default:
		if !validEventStatus(input.Status) {
			return nil, huma.Error400BadRequest("Unknown event status: " + input.Status)
		}
		q = q.Where("status = ?", input.Status)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events")
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		summary, err := h.eventSummary(ctx, ev)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to load events")
		}
		summaries = append(summaries, summary)
	}
	return &ListEventsResponse{Body: summaries}, nil
}

type GetEventRequest struct {
	ID uint `path:"id"`
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*EventResponse, error) {
	var ev models.Event
	if err := h.db.WithContext(ctx).First(&ev, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}
	summary, err := h.eventSummary(ctx, ev)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventResponse{Body: summary}, nil
}
