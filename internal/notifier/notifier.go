package notifier

import (
	"github.com/bde-apps/event-booking-api/internal/models"
)

// Action identifies which reservation lifecycle transition triggered a
// notification.
type Action string

const (
	ReservationCreated   Action = "created"
	ReservationUpdated   Action = "updated"
	ReservationCancelled Action = "cancelled"
)

// Notifier delivers booking notifications. Implementations are
// best-effort: the booking service logs failures and never rolls back a
// reservation because a notification could not be sent.
type Notifier interface {
	NotifyReservation(user models.User, event models.Event, reservation models.Reservation, action Action) error
}

// Multi fans a notification out to several notifiers. The first error
// is returned after every notifier has been attempted.
type Multi []Notifier

func (m Multi) NotifyReservation(user models.User, event models.Event, reservation models.Reservation, action Action) error {
	var first error
	for _, n := range m {
		if err := n.NotifyReservation(user, event, reservation, action); err != nil && first == nil {
			first = err
		}
	}
	return first
}
