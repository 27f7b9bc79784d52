package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event statuses. Transitions are driven by administrators; only
// published events accept new reservations.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

type Event struct {
	gorm.Model
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Date        time.Time       `json:"date"`
	Capacity    int             `json:"capacity"`
	Category    string          `json:"category"`
	Status      string          `gorm:"default:draft" json:"status"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"base_price"`
	// DriverPrice is the flat rate charged when the designated-driver
	// option is set. It overrides every other pricing rule.
	DriverPrice    decimal.Decimal `gorm:"type:decimal(10,2)" json:"driver_price"`
	MemberDiscount decimal.Decimal `gorm:"type:decimal(10,2)" json:"member_discount"`
	CreatedByID    *uint           `json:"created_by_id"`
	CreatedBy      *User           `gorm:"foreignKey:CreatedByID" json:"-"`
}
