package bookings

import "errors"

var (
	// ErrBookingNotFound means no booking exists for the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateBooking means the user already holds an active booking
	// for the event and the single-booking policy is enabled.
	ErrDuplicateBooking = errors.New("user already has an active booking for this event")
	// ErrInvalidTransition means the requested status change is not an
	// edge of the booking state machine.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrPastEvent means a confirmed booking cannot be cancelled because
	// the event has already taken place.
	ErrPastEvent = errors.New("cannot cancel booking for a past event")
	// ErrEventNotOver means a booking cannot be completed before the
	// event has taken place.
	ErrEventNotOver = errors.New("cannot complete booking before the event")
)
