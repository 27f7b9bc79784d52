package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/models"
)

type ReservationHandler struct {
	db          *gorm.DB
	service     *booking.Service
	authHandler *auth.AuthHandler
}

func NewReservationHandler(db *gorm.DB, service *booking.Service, authHandler *auth.AuthHandler) *ReservationHandler {
	return &ReservationHandler{db: db, service: service, authHandler: authHandler}
}

// domainError maps booking errors to HTTP responses. Each kind gets one
// actionable message; callers never see whether the condition was
// caught by a pre-check or by a database constraint.
func domainError(err error) error {
	switch {
	case errors.Is(err, booking.ErrEventNotFound):
		return huma.Error404NotFound("Event not found")
	case errors.Is(err, booking.ErrSlotNotFound):
		return huma.Error404NotFound("Bus slot not found for this event")
	case errors.Is(err, booking.ErrReservationNotFound):
		return huma.Error404NotFound("Reservation not found")
	case errors.Is(err, booking.ErrUserNotFound):
		return huma.Error404NotFound("User not found")
	case errors.Is(err, booking.ErrNotOwner):
		return huma.Error403Forbidden("This reservation belongs to another user")
	case errors.Is(err, booking.ErrEventClosed):
		return huma.Error409Conflict("This event is not open for reservations")
	case errors.Is(err, booking.ErrEventFull):
		return huma.Error409Conflict("This event is full")
	case errors.Is(err, booking.ErrSlotFull):
		return huma.Error409Conflict("This bus slot is full")
	case errors.Is(err, booking.ErrDuplicate):
		return huma.Error409Conflict("You already have a reservation for this event")
	case errors.Is(err, booking.ErrSlotDirection):
		return huma.Error400BadRequest("This bus slot does not serve the requested direction")
	}
	return huma.Error500InternalServerError("Failed to process reservation: " + err.Error())
}

type ReservationSummary struct {
	ID             uint      `json:"id"`
	Code           string    `json:"code"`
	UserID         uint      `json:"user_id"`
	EventID        uint      `json:"event_id"`
	OutboundSlotID *uint     `json:"outbound_slot_id"`
	ReturnSlotID   *uint     `json:"return_slot_id"`
	Member         bool      `json:"member"`
	Driver         bool      `json:"driver"`
	Drink          bool      `json:"drink"`
	Price          string    `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}

func reservationSummary(r models.Reservation) ReservationSummary {
	return ReservationSummary{
		ID:             r.ID,
		Code:           r.Code,
		UserID:         r.UserID,
		EventID:        r.EventID,
		OutboundSlotID: r.OutboundSlotID,
		ReturnSlotID:   r.ReturnSlotID,
		Member:         r.Member,
		Driver:         r.Driver,
		Drink:          r.Drink,
		Price:          r.Price.StringFixed(2),
		CreatedAt:      r.CreatedAt,
	}
}

type reservationOptions struct {
	Member         bool  `json:"member" doc:"Apply the member discount"`
	Driver         bool  `json:"driver" doc:"Designated driver; flat rate overrides other pricing"`
	Drink          bool  `json:"drink"`
	OutboundSlotID *uint `json:"outbound_slot_id" doc:"Bus slot to the event"`
	ReturnSlotID   *uint `json:"return_slot_id" doc:"Bus slot back from the event"`
}

func (o reservationOptions) toOptions() booking.Options {
	return booking.Options{
		Member:         o.Member,
		Driver:         o.Driver,
		Drink:          o.Drink,
		OutboundSlotID: o.OutboundSlotID,
		ReturnSlotID:   o.ReturnSlotID,
	}
}

type CreateReservationRequest struct {
	auth.AuthInput
	Body struct {
		EventID uint `json:"event_id" doc:"Event to book" required:"true"`
		reservationOptions
	}
}

type ReservationResponse struct {
	Body ReservationSummary
}

func (h *ReservationHandler) HandleCreateReservation(ctx context.Context, input *CreateReservationRequest) (*ReservationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	res, err := h.service.Create(ctx, userID, input.Body.EventID, input.Body.toOptions())
	if err != nil {
		return nil, domainError(err)
	}
	return &ReservationResponse{Body: reservationSummary(*res)}, nil
}

type UpdateReservationRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body reservationOptions
}

func (h *ReservationHandler) HandleUpdateReservation(ctx context.Context, input *UpdateReservationRequest) (*ReservationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	res, err := h.service.UpdateOptions(ctx, input.ID, userID, input.Body.toOptions())
	if err != nil {
		return nil, domainError(err)
	}
	return &ReservationResponse{Body: reservationSummary(*res)}, nil
}

type CancelReservationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *ReservationHandler) HandleCancelReservation(ctx context.Context, input *CancelReservationRequest) (*struct{}, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if err := h.service.Cancel(ctx, input.ID, userID); err != nil {
		return nil, domainError(err)
	}
	return nil, nil
}

type GetReservationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *ReservationHandler) HandleGetReservation(ctx context.Context, input *GetReservationRequest) (*ReservationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	res, err := h.service.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, domainError(err)
	}
	return &ReservationResponse{Body: reservationSummary(*res)}, nil
}

type ListMyReservationsRequest struct {
	auth.AuthInput
}

type ListReservationsResponse struct {
	Body []ReservationSummary
}

func (h *ReservationHandler) HandleListMyReservations(ctx context.Context, input *ListMyReservationsRequest) (*ListReservationsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	reservations, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list reservations")
	}

	summaries := make([]ReservationSummary, 0, len(reservations))
	for _, r := range reservations {
		summaries = append(summaries, reservationSummary(r))
	}
	return &ListReservationsResponse{Body: summaries}, nil
}

type ListEventReservationsRequest struct {
	auth.AuthInput
	EventID uint `path:"id"`
}

func (h *ReservationHandler) HandleListEventReservations(ctx context.Context, input *ListEventReservationsRequest) (*ListReservationsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	reservations, err := h.service.ListByEvent(ctx, input.EventID)
	if err != nil {
		return nil, domainError(err)
	}

	summaries := make([]ReservationSummary, 0, len(reservations))
	for _, r := range reservations {
		summaries = append(summaries, reservationSummary(r))
	}
	return &ListReservationsResponse{Body: summaries}, nil
}
