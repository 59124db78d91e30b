package inventory

import "errors"

var (
	// ErrEventNotFound means no inventory exists for the event id.
	ErrEventNotFound = errors.New("event inventory not found")
	// ErrEventInactive means the event is not open for booking.
	ErrEventInactive = errors.New("event is not active")
	// ErrEventPast means the event date has already passed.
	ErrEventPast = errors.New("event has already taken place")
	// ErrInsufficientSeats means fewer seats are available than requested.
	ErrInsufficientSeats = errors.New("not enough available seats")
	// ErrInvalidQuantity means the requested quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrReleaseOverflow means a release would push available_seats above
	// total_seats. That is a programming error in the caller, not a user
	// condition, and is surfaced rather than clamped silently.
	ErrReleaseOverflow = errors.New("release would exceed total seats")
)
