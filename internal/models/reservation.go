package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation is a user's booked place at an event. The composite
// unique index enforces at most one reservation per (user, event)
// pair; the booking service checks the same rule before writing so
// callers get a domain error instead of a constraint violation.
type Reservation struct {
	gorm.Model
	Code           string          `gorm:"uniqueIndex" json:"code"`
	UserID         uint            `gorm:"uniqueIndex:idx_user_event" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"-"`
	EventID        uint            `gorm:"uniqueIndex:idx_user_event" json:"event_id"`
	Event          Event           `gorm:"foreignKey:EventID" json:"-"`
	OutboundSlotID *uint           `json:"outbound_slot_id"`
	ReturnSlotID   *uint           `json:"return_slot_id"`
	Member         bool            `json:"member"`
	Driver         bool            `json:"driver"`
	Drink          bool            `json:"drink"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}
