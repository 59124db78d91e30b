package inventory

import (
	"context"
	"fmt"
	"time"

	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Manager is the single authority over per-event seat counters. All seat
// arithmetic flows through Reserve and Release; nothing else in the
// engine touches available_seats.
type Manager struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewManager creates an inventory manager
func NewManager(repo Repository, log *logger.Logger) *Manager {
	return &Manager{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Reserve atomically takes quantity seats from the event. On any failure
// path nothing is mutated. The returned Reservation carries the unit
// price so the booking layer can compute amounts without re-reading.
func (m *Manager) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (*Reservation, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// Price is read up front; the conditional update below re-validates
	// every guard atomically, so this read is never trusted for seat math.
	inv, err := m.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	ok, err := m.repo.DecrementSeats(ctx, eventID, quantity, now)
	if err != nil {
		return nil, fmt.Errorf("reserve seats: %w", err)
	}
	if !ok {
		return nil, m.classifyReserveFailure(ctx, eventID, quantity, now)
	}

	return &Reservation{
		EventID:   eventID,
		Quantity:  quantity,
		UnitPrice: inv.UnitPrice,
	}, nil
}

// classifyReserveFailure re-reads the row to report which guard rejected
// the conditional decrement.
func (m *Manager) classifyReserveFailure(ctx context.Context, eventID uuid.UUID, quantity int, now time.Time) error {
	inv, err := m.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	switch {
	case !inv.IsActive:
		return ErrEventInactive
	case !inv.IsUpcoming(now):
		return ErrEventPast
	case !inv.HasSeats(quantity):
		return ErrInsufficientSeats
	default:
		// Guards pass on re-read: a concurrent release freed seats between
		// the failed update and now. Report as insufficient; the caller
		// retries with the same request if it wants the freed seats.
		return ErrInsufficientSeats
	}
}

// Release atomically returns quantity seats to the event. A release that
// would push available_seats above total_seats signals a double release
// somewhere and is reported, never clamped.
func (m *Manager) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	ok, err := m.repo.IncrementSeats(ctx, eventID, quantity)
	if err != nil {
		return fmt.Errorf("release seats: %w", err)
	}
	if !ok {
		if _, err := m.repo.GetByID(ctx, eventID); err != nil {
			return err
		}
		m.log.LogReconciliationNeeded(ctx, "seat_release_overflow", eventID.String(), ErrReleaseOverflow)
		return ErrReleaseOverflow
	}
	return nil
}

// Administrative operations. Inventories are created inactive, published
// when the event goes on sale, and deactivated instead of deleted.

// Create creates a new inventory with all seats available
func (m *Manager) Create(ctx context.Context, req CreateInventoryRequest) (*EventInventory, error) {
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit price %q: %w", req.UnitPrice, err)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("invalid unit price %q: must not be negative", req.UnitPrice)
	}

	inv := &EventInventory{
		Name:           req.Name,
		Venue:          req.Venue,
		EventDateTime:  req.EventDateTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		UnitPrice:      unitPrice,
		IsActive:       false,
	}
	if err := m.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create inventory: %w", err)
	}
	return inv, nil
}

// Publish opens the event for booking
func (m *Manager) Publish(ctx context.Context, eventID uuid.UUID) error {
	return m.repo.SetActive(ctx, eventID, true)
}

// Deactivate closes the event for booking without deleting it
func (m *Manager) Deactivate(ctx context.Context, eventID uuid.UUID) error {
	return m.repo.SetActive(ctx, eventID, false)
}

// Get returns one inventory by id
func (m *Manager) Get(ctx context.Context, eventID uuid.UUID) (*EventInventory, error) {
	return m.repo.GetByID(ctx, eventID)
}

// List returns all inventories ordered by event date
func (m *Manager) List(ctx context.Context) ([]EventInventory, error) {
	return m.repo.List(ctx)
}
