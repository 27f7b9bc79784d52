package handlers

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/auth"
	"github.com/bde-apps/event-booking-api/internal/booking"
	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/models"
)

// testEnv wires a full handler stack against an in-memory database with
// one admin and one regular account already logged in.
type testEnv struct {
	db      *gorm.DB
	service *booking.Service

	authHandler        *auth.AuthHandler
	eventHandler       *EventHandler
	busHandler         *BusSlotHandler
	reservationHandler *ReservationHandler
	statsHandler       *StatsHandler

	admin   auth.AuthInput
	user    auth.AuthInput
	adminID uint
	userID  uint
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.BusSlot{},
		&models.Reservation{},
		&models.APIKey{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret", AdminEmail: "admin@example.com"}
	authHandler := auth.NewAuthHandler(cfg, db)
	service := booking.NewService(db, nil)

	env := &testEnv{
		db:                 db,
		service:            service,
		authHandler:        authHandler,
		eventHandler:       NewEventHandler(db, service, authHandler),
		busHandler:         NewBusSlotHandler(db, authHandler),
		reservationHandler: NewReservationHandler(db, service, authHandler),
		statsHandler:       NewStatsHandler(service, authHandler),
	}

	env.adminID, env.admin = env.signIn(t, "admin@example.com")
	env.userID, env.user = env.signIn(t, "alice@example.com")
	return env
}

func (e *testEnv) signIn(t *testing.T, email string) (uint, auth.AuthInput) {
	t.Helper()

	reg := auth.RegisterRequest{}
	reg.Body.Email = email
	reg.Body.Password = "password123"
	regResp, err := e.authHandler.HandleRegister(context.Background(), &reg)
	if err != nil {
		t.Fatalf("HandleRegister(%s) returned error: %v", email, err)
	}

	login := auth.LoginRequest{}
	login.Body.Email = email
	login.Body.Password = "password123"
	loginResp, err := e.authHandler.HandleLogin(context.Background(), &login)
	if err != nil {
		t.Fatalf("HandleLogin(%s) returned error: %v", email, err)
	}

	return regResp.Body.ID, auth.AuthInput{Cookie: "auth_token=" + loginResp.Body.Token}
}

func (e *testEnv) createEvent(t *testing.T, title string, capacity int, status string) EventSummary {
	t.Helper()

	req := CreateEventRequest{AuthInput: e.admin}
	req.Body.Title = title
	req.Body.City = "Rennes"
	req.Body.Date = time.Now().Add(7 * 24 * time.Hour)
	req.Body.Capacity = capacity
	req.Body.Status = status
	req.Body.BasePrice = 20
	req.Body.DriverPrice = 5
	req.Body.MemberDiscount = 5

	resp, err := e.eventHandler.HandleCreateEvent(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleCreateEvent returned error: %v", err)
	}
	return resp.Body
}

func (e *testEnv) createSlot(t *testing.T, eventID uint, direction, description string, capacity int) BusSlotSummary {
	t.Helper()

	req := CreateBusSlotRequest{AuthInput: e.admin}
	req.Body.EventID = &eventID
	req.Body.Direction = direction
	req.Body.Description = description
	req.Body.Capacity = capacity

	resp, err := e.busHandler.HandleCreateBusSlot(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleCreateBusSlot returned error: %v", err)
	}
	return resp.Body
}
