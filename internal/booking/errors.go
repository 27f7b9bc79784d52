package booking

import "errors"

// Domain errors returned by the booking service. Handlers compare with
// errors.Is and map each kind to one user-facing message, regardless of
// whether the condition was caught by a pre-check or by a database
// constraint.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrSlotNotFound        = errors.New("bus slot not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotOwner            = errors.New("reservation belongs to another user")
	ErrEventClosed         = errors.New("event is not open for reservations")
	ErrEventFull           = errors.New("event is full")
	ErrSlotFull            = errors.New("bus slot is full")
	ErrDuplicate           = errors.New("user already has a reservation for this event")
	ErrSlotDirection       = errors.New("bus slot does not serve the requested direction")
)
