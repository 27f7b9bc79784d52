package models

import (
	"gorm.io/gorm"
)

// Bus directions.
const (
	DirectionOutbound = "outbound"
	DirectionReturn   = "return"
)

// BusSlot is a capacity-limited transportation leg tied to an event.
// EventID is nullable: deleting an event detaches its slots instead of
// deleting them, so a slot can outlive its event.
type BusSlot struct {
	gorm.Model
	EventID     *uint  `json:"event_id"`
	Event       *Event `gorm:"foreignKey:EventID" json:"-"`
	Direction   string `gorm:"default:outbound" json:"direction"`
	Capacity    int    `json:"capacity"`
	Description string `gorm:"uniqueIndex" json:"description"`
	Vehicle     string `json:"vehicle"`
}
