package refunds

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventhub/internal/bookings"
	"eventhub/internal/inventory"
	"eventhub/internal/notifications"
	"eventhub/internal/payments"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixtures below wire real booking and payment services over
// in-memory storage so a refund runs the same chain production does:
// ledger row, payment REFUNDED, booking CANCELLED, seats released.

type memSeats struct {
	mu    sync.Mutex
	event *inventory.EventInventory
}

func (s *memSeats) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (*inventory.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event.ID != eventID {
		return nil, inventory.ErrEventNotFound
	}
	if s.event.AvailableSeats < quantity {
		return nil, inventory.ErrInsufficientSeats
	}
	s.event.AvailableSeats -= quantity
	return &inventory.Reservation{EventID: eventID, Quantity: quantity, UnitPrice: s.event.UnitPrice}, nil
}

func (s *memSeats) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event.ID != eventID {
		return inventory.ErrEventNotFound
	}
	s.event.AvailableSeats += quantity
	return nil
}

func (s *memSeats) Get(ctx context.Context, eventID uuid.UUID) (*inventory.EventInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event.ID != eventID {
		return nil, inventory.ErrEventNotFound
	}
	clone := *s.event
	return &clone, nil
}

func (s *memSeats) available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event.AvailableSeats
}

type memBookingStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*bookings.Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{items: make(map[uuid.UUID]*bookings.Booking)}
}

func (r *memBookingStore) Create(ctx context.Context, booking *bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = uuid.New()
	clone := *booking
	r.items[booking.ID] = &clone
	return nil
}

func (r *memBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	clone := *booking
	return &clone, nil
}

func (r *memBookingStore) GetByTicketID(ctx context.Context, ticketID string) (*bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.items {
		if booking.TicketID == ticketID {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, bookings.ErrBookingNotFound
}

func (r *memBookingStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]bookings.Booking, error) {
	return nil, nil
}

func (r *memBookingStore) ExistsActiveForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *memBookingStore) ExistsTicketID(ctx context.Context, ticketID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.items {
		if booking.TicketID == ticketID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingStore) TransitionStatus(ctx context.Context, id uuid.UUID, from []bookings.Status, to bookings.Status, cancelledAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.items[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if booking.Status == status {
			booking.Status = to
			if cancelledAt != nil {
				booking.CancelledAt = cancelledAt
			}
			return true, nil
		}
	}
	return false, nil
}

type memPaymentStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*payments.Payment
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{items: make(map[uuid.UUID]*payments.Payment)}
}

func (r *memPaymentStore) Create(ctx context.Context, payment *payments.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !payment.IsRefund {
		for _, existing := range r.items {
			if existing.BookingID == payment.BookingID && !existing.IsRefund {
				return payments.ErrDuplicatePayment
			}
		}
	}
	payment.ID = uuid.New()
	clone := *payment
	r.items[payment.ID] = &clone
	return nil
}

func (r *memPaymentStore) GetByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.items {
		if payment.TransactionID == transactionID {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, payments.ErrPaymentNotFound
}

func (r *memPaymentStore) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]payments.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payments.Payment
	for _, payment := range r.items {
		if payment.BookingID == bookingID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (r *memPaymentStore) ExistsOriginalForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.items {
		if payment.BookingID == bookingID && !payment.IsRefund {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPaymentStore) ExistsTransactionID(ctx context.Context, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.items {
		if payment.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPaymentStore) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to payments.Status, gatewayResponse string, processedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.items[id]
	if !ok || payment.Status != from {
		return false, nil
	}
	payment.Status = to
	if gatewayResponse != "" {
		payment.GatewayResponse = gatewayResponse
	}
	if processedAt != nil {
		payment.ProcessedAt = processedAt
	}
	return true, nil
}

type sink struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (n *sink) Publish(ctx context.Context, event notifications.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *sink) hasReconciliation(kind string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, event := range n.events {
		if event.Type == notifications.EventReconciliationNeeded && event.Payload["kind"] == kind {
			return true
		}
	}
	return false
}

type refundFixture struct {
	seats       *memSeats
	bookingRepo *memBookingStore
	paymentRepo *memPaymentStore
	bookingSvc  bookings.Service
	paymentSvc  payments.Service
	coordinator *Coordinator
	notifier    *sink
	userID      uuid.UUID
	eventID     uuid.UUID
}

func newRefundFixture(t *testing.T) *refundFixture {
	t.Helper()
	log := logger.New()
	notifier := &sink{}

	eventID := uuid.New()
	seats := &memSeats{event: &inventory.EventInventory{
		ID:             eventID,
		Name:           "Jazz Night",
		Venue:          "Blue Note",
		EventDateTime:  time.Now().Add(72 * time.Hour),
		TotalSeats:     50,
		AvailableSeats: 50,
		UnitPrice:      decimal.RequireFromString("100.00"),
		IsActive:       true,
	}}

	bookingRepo := newMemBookingStore()
	bookingSvc := bookings.NewService(bookingRepo, seats, notifier, bookings.Config{}, log)

	paymentRepo := newMemPaymentStore()
	paymentSvc := payments.NewService(paymentRepo, bookingSvc, payments.NewSimulatedGateway(), notifier, payments.Config{}, log)

	return &refundFixture{
		seats:       seats,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		bookingSvc:  bookingSvc,
		paymentSvc:  paymentSvc,
		coordinator: NewCoordinator(paymentSvc, bookingSvc, notifier, log),
		notifier:    notifier,
		userID:      uuid.New(),
		eventID:     eventID,
	}
}

func (f *refundFixture) paidBooking(t *testing.T, tickets int) (*bookings.Booking, *payments.Payment) {
	t.Helper()
	booking, err := f.bookingSvc.Create(context.Background(), f.userID, bookings.CreateBookingRequest{
		EventID:         f.eventID.String(),
		NumberOfTickets: tickets,
	})
	require.NoError(t, err)

	payment, err := f.paymentSvc.Initiate(context.Background(), f.userID, payments.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    payments.MethodUPI,
		Amount:    booking.TotalAmount.StringFixed(2),
		Details:   payments.MethodDetails{UpiID: "user@bank"},
	})
	require.NoError(t, err)
	require.Equal(t, payments.StatusSuccess, payment.Status)
	return booking, payment
}

func TestFullRefundCancelsBookingAndRestoresSeats(t *testing.T) {
	f := newRefundFixture(t)
	booking, payment := f.paidBooking(t, 4)
	require.Equal(t, 46, f.seats.available())

	refund, err := f.coordinator.Refund(context.Background(), payment.TransactionID, payment.Amount, "event rescheduled")
	require.NoError(t, err)

	assert.True(t, refund.IsRefund)
	assert.Equal(t, "-420.00", refund.Amount.StringFixed(2))

	original, err := f.paymentSvc.GetByTransactionID(context.Background(), payment.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusRefunded, original.Status)

	cancelled, err := f.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, cancelled.Status)

	// Seats return to the pre-booking value
	assert.Equal(t, 50, f.seats.available())
}

func TestRefundExceedingPaymentLeavesStateUnchanged(t *testing.T) {
	f := newRefundFixture(t)
	booking, payment := f.paidBooking(t, 2)

	_, err := f.coordinator.Refund(context.Background(), payment.TransactionID, payment.Amount.Add(decimal.RequireFromString("0.01")), "too much")
	assert.ErrorIs(t, err, payments.ErrRefundExceedsPayment)

	original, err := f.paymentSvc.GetByTransactionID(context.Background(), payment.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusSuccess, original.Status)

	current, err := f.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusConfirmed, current.Status)
	assert.Equal(t, 48, f.seats.available())
}

func TestRefundOfUnsettledPayment(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.coordinator.Refund(context.Background(), "TXN-0-MISSING0", decimal.RequireFromString("10.00"), "nothing there")
	assert.ErrorIs(t, err, payments.ErrPaymentNotFound)
}

func TestRefundStandsWhenCancellationFails(t *testing.T) {
	f := newRefundFixture(t)
	booking, payment := f.paidBooking(t, 1)

	// The event passes before the refund; CONFIRMED bookings for past
	// events cannot be cancelled
	f.seats.mu.Lock()
	f.seats.event.EventDateTime = time.Now().Add(-time.Hour)
	f.seats.mu.Unlock()

	refund, err := f.coordinator.Refund(context.Background(), payment.TransactionID, payment.Amount, "goodwill")
	require.NoError(t, err)
	require.NotNil(t, refund)

	// Ledger keeps the refund even though the booking stayed CONFIRMED
	original, err := f.paymentSvc.GetByTransactionID(context.Background(), payment.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusRefunded, original.Status)

	current, err := f.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusConfirmed, current.Status)

	assert.True(t, f.notifier.hasReconciliation("refunded_without_cancellation"))
}
