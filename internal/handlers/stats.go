package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/booking"
)

type StatsHandler struct {
	service     *booking.Service
	authHandler *auth.AuthHandler
}

func NewStatsHandler(service *booking.Service, authHandler *auth.AuthHandler) *StatsHandler {
	return &StatsHandler{service: service, authHandler: authHandler}
}

type EventStatsRequest struct {
	auth.AuthInput
	EventID uint `path:"id"`
}

type EventStatsResponse struct {
	Body booking.EventStats
}

func (h *StatsHandler) HandleEventStats(ctx context.Context, input *EventStatsRequest) (*EventStatsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	stats, err := h.service.Statistics(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, booking.ErrEventNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Failed to compute statistics")
	}
	return &EventStatsResponse{Body: *stats}, nil
}

type AllStatsRequest struct {
	auth.AuthInput
}

type AllStatsResponse struct {
	Body []booking.EventStats
}

func (h *StatsHandler) HandleAllStats(ctx context.Context, input *AllStatsRequest) (*AllStatsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	stats, err := h.service.AllStatistics(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute statistics")
	}
	return &AllStatsResponse{Body: stats}, nil
}
