package booking

import (
	"context"
	"math"

	"github.com/bde-apps/event-booking-api/internal/models"
)

// SlotStats is the derived occupancy of one bus slot.
type SlotStats struct {
	SlotID      uint    `json:"slot_id"`
	Description string  `json:"description"`
	Direction   string  `json:"direction"`
	Capacity    int     `json:"capacity"`
	Reserved    int64   `json:"reserved"`
	Remaining   int     `json:"remaining"`
	Occupancy   float64 `json:"occupancy"`
}

// EventStats is the derived, read-only occupancy view of one event,
// including per-option tallies and per-slot occupancy.
type EventStats struct {
	EventID   uint        `json:"event_id"`
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	Capacity  int         `json:"capacity"`
	Total     int64       `json:"total"`
	Remaining int         `json:"remaining"`
	Occupancy float64     `json:"occupancy"`
	Members   int64       `json:"members"`
	Drivers   int64       `json:"drivers"`
	Drinks    int64       `json:"drinks"`
	Slots     []SlotStats `json:"slots"`
}

// Statistics computes the occupancy view for one event from live
// reservation counts.
func (s *Service) Statistics(ctx context.Context, eventID uint) (*EventStats, error) {
	db := s.db.WithContext(ctx)

	var ev models.Event
	if err := db.First(&ev, eventID).Error; err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}

	total, err := eventReservationCount(db, ev.ID)
	if err != nil {
		return nil, err
	}

	stats := &EventStats{
		EventID:   ev.ID,
		Title:     ev.Title,
		Status:    ev.Status,
		Capacity:  ev.Capacity,
		Total:     total,
		Remaining: remaining(ev.Capacity, total),
		Occupancy: occupancy(total, ev.Capacity),
		Slots:     []SlotStats{},
	}

	for flag, dst := range map[string]*int64{
		"member": &stats.Members,
		"driver": &stats.Drivers,
		"drink":  &stats.Drinks,
	} {
		if err := db.Model(&models.Reservation{}).
			Where("event_id = ? AND "+flag+" = ?", ev.ID, true).
			Count(dst).Error; err != nil {
			return nil, err
		}
	}

	var slots []models.BusSlot
	if err := db.Where("event_id = ?", ev.ID).Order("id").Find(&slots).Error; err != nil {
		return nil, err
	}
	for _, slot := range slots {
		reserved, err := slotReservationCount(db, slot)
		if err != nil {
			return nil, err
		}
		stats.Slots = append(stats.Slots, SlotStats{
			SlotID:      slot.ID,
			Description: slot.Description,
			Direction:   slot.Direction,
			Capacity:    slot.Capacity,
			Reserved:    reserved,
			Remaining:   remaining(slot.Capacity, reserved),
			Occupancy:   occupancy(reserved, slot.Capacity),
		})
	}

	return stats, nil
}

// AllStatistics computes the occupancy view for every event, for the
// administrator dashboard.
func (s *Service) AllStatistics(ctx context.Context) ([]EventStats, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("date").Find(&events).Error; err != nil {
		return nil, err
	}
	stats := make([]EventStats, 0, len(events))
	for _, ev := range events {
		st, err := s.Statistics(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *st)
	}
	return stats, nil
}

// Remaining returns the free seats for an event, derived from live
// counts. Exposed for listings that show availability next to each
// event.
func (s *Service) Remaining(ctx context.Context, eventID uint) (int, error) {
	var ev models.Event
	if err := s.db.WithContext(ctx).First(&ev, eventID).Error; err != nil {
		return 0, notFound(err, ErrEventNotFound)
	}
	total, err := eventReservationCount(s.db.WithContext(ctx), eventID)
	if err != nil {
		return 0, err
	}
	return remaining(ev.Capacity, total), nil
}

func remaining(capacity int, reserved int64) int {
	r := capacity - int(reserved)
	if r < 0 {
		return 0
	}
	return r
}

// occupancy is the reservation count as a percentage of capacity,
// rounded to two decimals. Capacity should never be zero, but the
// aggregation must not divide by it.
func occupancy(reserved int64, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Round(float64(reserved)/float64(capacity)*10000) / 100
}
