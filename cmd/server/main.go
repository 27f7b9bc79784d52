package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/database"
	"github.com/bde-apps/event-booking-api/internal/handlers"
	"github.com/bde-apps/event-booking-api/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifiers
	var notifiers notifier.Multi
	if cfg.SMTPAddr != "" {
		mailNotifier, err := notifier.NewMailNotifier(cfg)
		if err != nil {
			log.Printf("Mail notifier not initialized: %v", err)
		} else {
			notifiers = append(notifiers, mailNotifier)
		}
	}
	if cfg.DiscordBotToken != "" {
		discordNotifier, err := notifier.NewDiscordNotifier(cfg)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			notifiers = append(notifiers, discordNotifier)
		}
	}

	// Initialize Services and Handlers
	service := booking.NewService(db, notifiers)
	authHandler := auth.NewAuthHandler(cfg, db)
	eventHandler := handlers.NewEventHandler(db, service, authHandler)
	busHandler := handlers.NewBusSlotHandler(db, authHandler)
	reservationHandler := handlers.NewReservationHandler(db, service, authHandler)
	statsHandler := handlers.NewStatsHandler(service, authHandler)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, eventHandler, busHandler, reservationHandler, statsHandler, apiKeyHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
