package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/models"
)

func Connect(cfg *config.Config) *gorm.DB {
	// TranslateError turns driver-level unique violations into
	// gorm.ErrDuplicatedKey so the booking service can map them to the
	// same domain error as its pre-checks.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.BusSlot{},
		&models.Reservation{},
		&models.APIKey{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
