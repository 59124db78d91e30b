package bookings

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/identifier"
	"eventhub/internal/inventory"
	"eventhub/internal/notifications"
	"eventhub/internal/pricing"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
)

// SeatService is the slice of the inventory manager the booking state
// machine needs. Seat arithmetic stays on the inventory side; bookings
// only ever ask for a reservation or hand one back.
type SeatService interface {
	Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (*inventory.Reservation, error)
	Release(ctx context.Context, eventID uuid.UUID, quantity int) error
	Get(ctx context.Context, eventID uuid.UUID) (*inventory.EventInventory, error)
}

// Notifier publishes engine events. Failures are logged, never returned
// to the user-facing path.
type Notifier interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// Config holds booking policy switches
type Config struct {
	// SinglePerUser forbids a second active booking per (user, event) pair
	SinglePerUser bool
}

// Service interface defines the contract for the booking lifecycle
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error)
	Confirm(ctx context.Context, bookingID uuid.UUID) error
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	Complete(ctx context.Context, bookingID uuid.UUID) error

	GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetByTicketID(ctx context.Context, ticketID string) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)
}

type service struct {
	repo     Repository
	seats    SeatService
	notifier Notifier
	ids      *identifier.Allocator
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new booking service instance
func NewService(repo Repository, seats SeatService, notifier Notifier, cfg Config, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		seats:    seats,
		notifier: notifier,
		ids:      identifier.NewAllocator(identifier.NewTicketID, repo.ExistsTicketID),
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Create reserves seats and persists a PENDING booking. The reservation
// happens first; every later failure releases it again so a failed call
// leaves the seat counter untouched.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}

	if s.cfg.SinglePerUser {
		exists, err := s.repo.ExistsActiveForUserAndEvent(ctx, userID, eventID)
		if err != nil {
			return nil, fmt.Errorf("duplicate booking check: %w", err)
		}
		if exists {
			return nil, ErrDuplicateBooking
		}
	}

	reservation, err := s.seats.Reserve(ctx, eventID, req.NumberOfTickets)
	if err != nil {
		// Inventory errors propagate unchanged; no booking row exists
		return nil, err
	}

	booking, err := s.buildPendingBooking(ctx, userID, reservation)
	if err != nil {
		s.compensateReservation(ctx, reservation)
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.compensateReservation(ctx, reservation)
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.EventID.String(), booking.UserID.String())
	s.publish(ctx, notifications.NewEvent(notifications.EventBookingCreated, booking.ID.String(), map[string]interface{}{
		"ticket_id":         booking.TicketID,
		"event_id":          booking.EventID.String(),
		"user_id":           booking.UserID.String(),
		"number_of_tickets": booking.NumberOfTickets,
		"total_amount":      booking.TotalAmount.StringFixed(2),
	}))

	return booking, nil
}

func (s *service) buildPendingBooking(ctx context.Context, userID uuid.UUID, res *inventory.Reservation) (*Booking, error) {
	quote, err := pricing.Quote(res.UnitPrice, res.Quantity)
	if err != nil {
		return nil, err
	}

	ticketID, err := s.ids.Next(ctx)
	if err != nil {
		return nil, err
	}

	return &Booking{
		TicketID:        ticketID,
		EventID:         res.EventID,
		UserID:          userID,
		NumberOfTickets: res.Quantity,
		ServiceFee:      quote.ServiceFee,
		TotalAmount:     quote.TotalAmount,
		Status:          StatusPending,
	}, nil
}

// compensateReservation returns reserved seats after a mid-create
// failure. A failed release leaves seats deducted with no booking, which
// must surface for reconciliation.
func (s *service) compensateReservation(ctx context.Context, res *inventory.Reservation) {
	if err := s.seats.Release(ctx, res.EventID, res.Quantity); err != nil {
		s.log.LogReconciliationNeeded(ctx, "reserved_without_booking", res.EventID.String(), err)
		s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, res.EventID.String(), map[string]interface{}{
			"kind":     "reserved_without_booking",
			"quantity": res.Quantity,
		}))
	}
}

// Confirm moves a PENDING booking to CONFIRMED. Called by the payment
// state machine on payment success, never from the request layer.
func (s *service) Confirm(ctx context.Context, bookingID uuid.UUID) error {
	ok, err := s.repo.TransitionStatus(ctx, bookingID, []Status{StatusPending}, StatusConfirmed, nil)
	if err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	if !ok {
		if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
			return err
		}
		return ErrInvalidTransition
	}

	s.publish(ctx, notifications.NewEvent(notifications.EventBookingConfirmed, bookingID.String(), nil))
	return nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED and releases
// its seats. Cancelling an already-CANCELLED booking is a no-op success
// so callers can retry safely; the seats are only ever released by the
// call that actually wins the status transition.
func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.cancelTransition(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		// Already cancelled before this call, or another caller won
		return nil
	}

	if err := s.seats.Release(ctx, booking.EventID, booking.NumberOfTickets); err != nil {
		s.log.LogReconciliationNeeded(ctx, "cancelled_without_release", bookingID.String(), err)
		s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, bookingID.String(), map[string]interface{}{
			"kind":     "cancelled_without_release",
			"event_id": booking.EventID.String(),
			"quantity": booking.NumberOfTickets,
		}))
	}

	s.log.LogBookingCancelled(ctx, bookingID.String(), booking.EventID.String())
	s.publish(ctx, notifications.NewEvent(notifications.EventBookingCancelled, bookingID.String(), map[string]interface{}{
		"event_id": booking.EventID.String(),
	}))

	return nil
}

// cancelTransition drives the CANCELLED CAS. The CAS is keyed to the
// exact status the guards saw, so a confirmation landing between the
// read and the write cannot slip a CONFIRMED booking past the
// past-event check. A lost race re-reads; the status only ever moves
// forward, so the loop settles within a read per possible transition.
// Returns the booking this call cancelled, or nil when someone else
// already had.
func (s *service) cancelTransition(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	for attempt := 0; attempt < 3; attempt++ {
		booking, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		if booking.IsCancelled() {
			return nil, nil
		}
		if booking.Status == StatusCompleted {
			return nil, ErrInvalidTransition
		}

		if booking.Status == StatusConfirmed {
			inv, err := s.seats.Get(ctx, booking.EventID)
			if err != nil {
				return nil, fmt.Errorf("load event for cancellation: %w", err)
			}
			if !inv.IsUpcoming(s.now()) {
				return nil, ErrPastEvent
			}
		}

		now := s.now().UTC()
		ok, err := s.repo.TransitionStatus(ctx, bookingID, []Status{booking.Status}, StatusCancelled, &now)
		if err != nil {
			return nil, fmt.Errorf("cancel booking: %w", err)
		}
		if ok {
			return booking, nil
		}
	}
	return nil, ErrInvalidTransition
}

// Complete moves a CONFIRMED booking to COMPLETED once the event has
// taken place. Administrative transition, no seat effect.
func (s *service) Complete(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != StatusConfirmed {
		return ErrInvalidTransition
	}

	inv, err := s.seats.Get(ctx, booking.EventID)
	if err != nil {
		return fmt.Errorf("load event for completion: %w", err)
	}
	if inv.IsUpcoming(s.now()) {
		return ErrEventNotOver
	}

	ok, err := s.repo.TransitionStatus(ctx, bookingID, []Status{StatusConfirmed}, StatusCompleted, nil)
	if err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}

	s.publish(ctx, notifications.NewEvent(notifications.EventBookingCompleted, bookingID.String(), nil))
	return nil
}

// GetByID retrieves a booking by ID
func (s *service) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

// GetByTicketID retrieves a booking by its ticket identifier
func (s *service) GetByTicketID(ctx context.Context, ticketID string) (*Booking, error) {
	return s.repo.GetByTicketID(ctx, ticketID)
}

// ListByUser retrieves bookings for a specific user
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// publish emits an event without letting delivery failures leak into the
// operation that produced them.
func (s *service) publish(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish booking event", err, map[string]interface{}{
			"type":      event.Type,
			"entity_id": event.EntityID,
		})
	}
}
