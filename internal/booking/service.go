// Package booking implements the reservation lifecycle: creation,
// option updates and cancellation against shared event and bus-slot
// capacity, plus the derived occupancy statistics.
//
// Capacity is never stored as a counter. Every check counts live
// reservation rows inside the same transaction as the write, and the
// write is verified by a recount before commit, so concurrent bookings
// cannot push an event or slot past capacity.
package booking

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/models"
	"github.com/bde-apps/event-booking-api/internal/notifier"
)

type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
}

func NewService(db *gorm.DB, n notifier.Notifier) *Service {
	return &Service{db: db, notifier: n}
}

// Create books a seat for the user at the event. The whole validation
// sequence and the insert run in one transaction: event published,
// event capacity, slot capacity per requested direction, then the
// (user, event) uniqueness rule. The composite unique index backs the
// last check so a race surfaces as ErrDuplicate instead of a second row.
func (s *Service) Create(ctx context.Context, userID, eventID uint, opts Options) (*models.Reservation, error) {
	var (
		user models.User
		ev   models.Event
		res  models.Reservation
	)
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&user, userID).Error; err != nil {
				return notFound(err, ErrUserNotFound)
			}
			if err := tx.First(&ev, eventID).Error; err != nil {
				return notFound(err, ErrEventNotFound)
			}
			if ev.Status != models.EventPublished {
				return ErrEventClosed
			}

			total, err := eventReservationCount(tx, eventID)
			if err != nil {
				return err
			}
			if total >= int64(ev.Capacity) {
				return ErrEventFull
			}

			if err := checkSlot(tx, opts.OutboundSlotID, eventID, models.DirectionOutbound); err != nil {
				return err
			}
			if err := checkSlot(tx, opts.ReturnSlotID, eventID, models.DirectionReturn); err != nil {
				return err
			}

			var existing int64
			if err := tx.Model(&models.Reservation{}).
				Where("user_id = ? AND event_id = ?", userID, eventID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrDuplicate
			}

			code, err := NewCode()
			if err != nil {
				return err
			}
			res = models.Reservation{
				Code:           code,
				UserID:         userID,
				EventID:        eventID,
				OutboundSlotID: opts.OutboundSlotID,
				ReturnSlotID:   opts.ReturnSlotID,
				Member:         opts.Member,
				Driver:         opts.Driver,
				Drink:          opts.Drink,
				Price:          ComputePrice(ev, opts),
			}
			if err := tx.Create(&res).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicate
				}
				return err
			}

			// Recount after the insert. If a concurrent booking slipped
			// past the pre-check, roll back rather than overbook.
			return verifyCapacity(tx, ev, opts)
		})
	})
	if err != nil {
		return nil, err
	}
	s.notify(user, ev, res, notifier.ReservationCreated)
	return &res, nil
}

// UpdateOptions changes the option flags and slot selections of an
// existing reservation. Only the requester who owns the reservation (or
// an administrator) may update it, and slot capacity is re-checked only
// for newly selected slots. The price is recomputed under the same rule
// as creation.
func (s *Service) UpdateOptions(ctx context.Context, reservationID, requesterID uint, opts Options) (*models.Reservation, error) {
	var (
		user models.User
		ev   models.Event
		res  models.Reservation
	)
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&res, reservationID).Error; err != nil {
				return notFound(err, ErrReservationNotFound)
			}
			if err := authorizeOwner(tx, res.UserID, requesterID); err != nil {
				return err
			}
			if err := tx.First(&ev, res.EventID).Error; err != nil {
				return notFound(err, ErrEventNotFound)
			}

			if slotChanged(res.OutboundSlotID, opts.OutboundSlotID) {
				if err := checkSlot(tx, opts.OutboundSlotID, res.EventID, models.DirectionOutbound); err != nil {
					return err
				}
			}
			if slotChanged(res.ReturnSlotID, opts.ReturnSlotID) {
				if err := checkSlot(tx, opts.ReturnSlotID, res.EventID, models.DirectionReturn); err != nil {
					return err
				}
			}

			res.OutboundSlotID = opts.OutboundSlotID
			res.ReturnSlotID = opts.ReturnSlotID
			res.Member = opts.Member
			res.Driver = opts.Driver
			res.Drink = opts.Drink
			res.Price = ComputePrice(ev, opts)
			if err := tx.Save(&res).Error; err != nil {
				return err
			}

			if err := verifySlots(tx, opts); err != nil {
				return err
			}
			return tx.First(&user, res.UserID).Error
		})
	})
	if err != nil {
		return nil, err
	}
	s.notify(user, ev, res, notifier.ReservationUpdated)
	return &res, nil
}

// Cancel deletes a reservation. The delete is unscoped: capacity is
// derived from live counts and the (user, event) unique index must not
// keep blocking a re-booking through a soft-deleted row. Cancelling a
// reservation that does not exist returns ErrReservationNotFound with
// no side effects.
func (s *Service) Cancel(ctx context.Context, reservationID, requesterID uint) error {
	var (
		user models.User
		ev   models.Event
		res  models.Reservation
	)
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&res, reservationID).Error; err != nil {
				return notFound(err, ErrReservationNotFound)
			}
			if err := authorizeOwner(tx, res.UserID, requesterID); err != nil {
				return err
			}
			if err := tx.First(&user, res.UserID).Error; err != nil {
				return err
			}
			if err := tx.First(&ev, res.EventID).Error; err != nil {
				return notFound(err, ErrEventNotFound)
			}
			return tx.Unscoped().Delete(&models.Reservation{}, res.ID).Error
		})
	})
	if err != nil {
		return err
	}
	s.notify(user, ev, res, notifier.ReservationCancelled)
	return nil
}

// Get returns a single reservation, enforcing the same ownership rule
// as mutations.
func (s *Service) Get(ctx context.Context, reservationID, requesterID uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.WithContext(ctx).First(&res, reservationID).Error; err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}
	if err := authorizeOwner(s.db.WithContext(ctx), res.UserID, requesterID); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByUser returns the user's reservations, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// ListByEvent returns every reservation for an event, newest first.
func (s *Service) ListByEvent(ctx context.Context, eventID uint) ([]models.Reservation, error) {
	var ev models.Event
	if err := s.db.WithContext(ctx).First(&ev, eventID).Error; err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

func (s *Service) notify(user models.User, ev models.Event, res models.Reservation, action notifier.Action) {
	if s.notifier == nil {
		return
	}
	// Best effort: a failed notification never fails the booking.
	go func() {
		if err := s.notifier.NotifyReservation(user, ev, res, action); err != nil {
			log.Printf("Failed to send %s notification for reservation %s: %v", action, res.Code, err)
		}
	}()
}

func eventReservationCount(tx *gorm.DB, eventID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func slotReservationCount(tx *gorm.DB, slot models.BusSlot) (int64, error) {
	column := "outbound_slot_id"
	if slot.Direction == models.DirectionReturn {
		column = "return_slot_id"
	}
	var n int64
	err := tx.Model(&models.Reservation{}).Where(column+" = ?", slot.ID).Count(&n).Error
	return n, err
}

// checkSlot validates a requested slot: it must exist, belong to the
// event, serve the requested direction and have a free seat. A nil slot
// ID means no bus for that direction and is always valid.
func checkSlot(tx *gorm.DB, slotID *uint, eventID uint, direction string) error {
	if slotID == nil {
		return nil
	}
	var slot models.BusSlot
	if err := tx.First(&slot, *slotID).Error; err != nil {
		return notFound(err, ErrSlotNotFound)
	}
	if slot.EventID == nil || *slot.EventID != eventID {
		return ErrSlotNotFound
	}
	if slot.Direction != direction {
		return ErrSlotDirection
	}
	n, err := slotReservationCount(tx, slot)
	if err != nil {
		return err
	}
	if n >= int64(slot.Capacity) {
		return ErrSlotFull
	}
	return nil
}

// verifyCapacity recounts the event and the requested slots after a
// write. Returning an error rolls the enclosing transaction back.
func verifyCapacity(tx *gorm.DB, ev models.Event, opts Options) error {
	total, err := eventReservationCount(tx, ev.ID)
	if err != nil {
		return err
	}
	if total > int64(ev.Capacity) {
		return ErrEventFull
	}
	return verifySlots(tx, opts)
}

func verifySlots(tx *gorm.DB, opts Options) error {
	for _, slotID := range []*uint{opts.OutboundSlotID, opts.ReturnSlotID} {
		if slotID == nil {
			continue
		}
		var slot models.BusSlot
		if err := tx.First(&slot, *slotID).Error; err != nil {
			return notFound(err, ErrSlotNotFound)
		}
		n, err := slotReservationCount(tx, slot)
		if err != nil {
			return err
		}
		if n > int64(slot.Capacity) {
			return ErrSlotFull
		}
	}
	return nil
}

// authorizeOwner allows the owner of a reservation and administrators.
func authorizeOwner(tx *gorm.DB, ownerID, requesterID uint) error {
	if ownerID == requesterID {
		return nil
	}
	var requester models.User
	if err := tx.First(&requester, requesterID).Error; err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if !requester.Admin {
		return ErrNotOwner
	}
	return nil
}

func slotChanged(current, requested *uint) bool {
	return requested != nil && (current == nil || *current != *requested)
}

func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}

// withRetry retries a mutation once when the store reports a transient
// conflict (sqlite reports lock contention as a busy/locked error).
func withRetry(fn func() error) error {
	err := fn()
	if err != nil && isTransient(err) {
		return fn()
	}
	return err
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
