package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/config"
)

func RegisterRoutes(
	r *chi.Mux,
	cfg *config.Config,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	busHandler *BusSlotHandler,
	reservationHandler *ReservationHandler,
	statsHandler *StatsHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(corsMiddleware)
	}

	// Initialize Huma API
	humaConfig := huma.DefaultConfig("Event Booking API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, humaConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/auth/register", authHandler.HandleRegister)
	huma.Post(api, "/auth/login", authHandler.HandleLogin)
	huma.Get(api, "/me", authHandler.HandleMe, secured)

	huma.Get(api, "/events", eventHandler.HandleListEvents)
	huma.Get(api, "/events/{id}", eventHandler.HandleGetEvent)
	huma.Get(api, "/events/{id}/bus-slots", busHandler.HandleListEventBusSlots)

	// Reservations (authenticated users)
	huma.Post(api, "/reservations", reservationHandler.HandleCreateReservation, secured)
	huma.Get(api, "/reservations", reservationHandler.HandleListMyReservations, secured)
	huma.Get(api, "/reservations/{id}", reservationHandler.HandleGetReservation, secured)
	huma.Patch(api, "/reservations/{id}", reservationHandler.HandleUpdateReservation, secured)
	huma.Delete(api, "/reservations/{id}", reservationHandler.HandleCancelReservation, secured)

	// Administration
	huma.Post(api, "/admin/events", eventHandler.HandleCreateEvent, secured)
	huma.Put(api, "/admin/events/{id}", eventHandler.HandleUpdateEvent, secured)
	huma.Delete(api, "/admin/events/{id}", eventHandler.HandleDeleteEvent, secured)
	huma.Get(api, "/admin/events/{id}/reservations", reservationHandler.HandleListEventReservations, secured)
	huma.Get(api, "/admin/events/{id}/statistics", statsHandler.HandleEventStats, secured)
	huma.Get(api, "/admin/statistics", statsHandler.HandleAllStats, secured)
	huma.Post(api, "/admin/bus-slots", busHandler.HandleCreateBusSlot, secured)
	huma.Put(api, "/admin/bus-slots/{id}", busHandler.HandleUpdateBusSlot, secured)
	huma.Delete(api, "/admin/bus-slots/{id}", busHandler.HandleDeleteBusSlot, secured)

	// API keys
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, secured)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, secured)
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
