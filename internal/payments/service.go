package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/bookings"
	"eventhub/internal/identifier"
	"eventhub/internal/notifications"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingService is the slice of the booking state machine the payment
// side drives. A successful payment confirms the booking; a failed one
// may cancel it depending on policy.
type BookingService interface {
	Confirm(ctx context.Context, bookingID uuid.UUID) error
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error)
}

// Notifier publishes engine events
type Notifier interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// Config holds payment policy switches
type Config struct {
	// ReleaseOnFailure cancels the booking (releasing its seats) when a
	// payment resolves FAILED instead of leaving it PENDING for retry
	ReleaseOnFailure bool
}

// Service interface defines the contract for the payment lifecycle
type Service interface {
	Initiate(ctx context.Context, userID uuid.UUID, req InitiatePaymentRequest) (*Payment, error)
	Resolve(ctx context.Context, transactionID string, outcome Outcome) (*Payment, error)
	Verify(ctx context.Context, transactionID string) (bool, error)
	RecordRefund(ctx context.Context, transactionID string, amount decimal.Decimal, reason string) (*Payment, error)

	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
}

type service struct {
	repo     Repository
	bookings BookingService
	gateway  Gateway
	notifier Notifier
	ids      *identifier.Allocator
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new payment service instance
func NewService(repo Repository, bookingService BookingService, gateway Gateway, notifier Notifier, cfg Config, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		bookings: bookingService,
		gateway:  gateway,
		notifier: notifier,
		ids:      identifier.NewAllocator(identifier.NewTransactionID, repo.ExistsTransactionID),
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Initiate validates the request against the booking, persists a PENDING
// payment, and hands it to the gateway. A synchronous gateway's outcome
// is applied before returning; an asynchronous one leaves the payment
// PENDING until Resolve is called with its verdict.
func (s *service) Initiate(ctx context.Context, userID uuid.UUID, req InitiatePaymentRequest) (*Payment, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}
	if !req.Method.IsValid() {
		return nil, ErrUnknownMethod
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != bookings.StatusPending {
		return nil, ErrInvalidBookingState
	}

	// Fast-path rejection; the partial unique index on payments is what
	// actually serializes two concurrent attempts for one booking
	exists, err := s.repo.ExistsOriginalForBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("duplicate payment check: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePayment
	}

	if !amount.Equal(booking.TotalAmount) {
		return nil, ErrAmountMismatch
	}

	transactionID, err := s.ids.Next(ctx)
	if err != nil {
		return nil, err
	}

	payment := &Payment{
		TransactionID: transactionID,
		BookingID:     bookingID,
		Amount:        amount,
		Method:        req.Method,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, ErrDuplicatePayment) {
			// A concurrent attempt inserted its row between the check
			// above and this insert; the index picked the winner
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("persist payment: %w", err)
	}

	outcome, err := s.gateway.Charge(ctx, ChargeRequest{
		TransactionID: transactionID,
		BookingID:     bookingID.String(),
		Amount:        amount,
		Method:        req.Method,
		Details:       req.Details,
	})
	if err != nil {
		// The provider never took the charge; settle the payment FAILED
		// so the booking is not stuck behind a phantom attempt.
		outcome = &Outcome{Status: StatusFailed, GatewayResponse: fmt.Sprintf("gateway error: %v", err)}
	}
	if outcome == nil {
		// Asynchronous provider; Resolve will be called later
		return payment, nil
	}

	return s.Resolve(ctx, transactionID, *outcome)
}

// Resolve applies a gateway verdict to a PENDING payment. SUCCESS
// confirms the booking; if confirmation fails the payment rolls back to
// FAILED and the inconsistency is surfaced for reconciliation, because a
// payment must never sit SUCCESS against an unconfirmed booking.
func (s *service) Resolve(ctx context.Context, transactionID string, outcome Outcome) (*Payment, error) {
	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}
	if outcome.Status != StatusSuccess && outcome.Status != StatusFailed {
		return nil, fmt.Errorf("outcome must be SUCCESS or FAILED, got %s", outcome.Status)
	}

	processedAt := s.now().UTC()
	ok, err := s.repo.UpdateStatusIf(ctx, payment.ID, StatusPending, outcome.Status, outcome.GatewayResponse, &processedAt)
	if err != nil {
		return nil, fmt.Errorf("resolve payment: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyResolved
	}
	payment.Status = outcome.Status
	payment.GatewayResponse = outcome.GatewayResponse
	payment.ProcessedAt = &processedAt

	if outcome.Status == StatusSuccess {
		if err := s.bookings.Confirm(ctx, payment.BookingID); err != nil {
			return s.rollbackUnconfirmed(ctx, payment, err)
		}
		s.log.LogPaymentResolved(ctx, transactionID, payment.BookingID.String(), string(StatusSuccess))
		s.publish(ctx, notifications.NewEvent(notifications.EventPaymentSucceeded, transactionID, map[string]interface{}{
			"booking_id": payment.BookingID.String(),
			"amount":     payment.Amount.StringFixed(2),
		}))
		return payment, nil
	}

	s.log.LogPaymentResolved(ctx, transactionID, payment.BookingID.String(), string(StatusFailed))
	s.publish(ctx, notifications.NewEvent(notifications.EventPaymentFailed, transactionID, map[string]interface{}{
		"booking_id": payment.BookingID.String(),
		"reason":     outcome.GatewayResponse,
	}))

	if s.cfg.ReleaseOnFailure {
		if err := s.bookings.Cancel(ctx, payment.BookingID); err != nil {
			s.log.LogReconciliationNeeded(ctx, "failed_payment_release", transactionID, err)
			s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, transactionID, map[string]interface{}{
				"kind":       "failed_payment_release",
				"booking_id": payment.BookingID.String(),
			}))
		}
	}

	return payment, nil
}

// rollbackUnconfirmed undoes a SUCCESS whose booking confirmation failed
func (s *service) rollbackUnconfirmed(ctx context.Context, payment *Payment, confirmErr error) (*Payment, error) {
	response := fmt.Sprintf("booking confirmation failed: %v", confirmErr)
	ok, err := s.repo.UpdateStatusIf(ctx, payment.ID, StatusSuccess, StatusFailed, response, nil)
	if err != nil || !ok {
		// Rolled back nowhere; the ledger now disagrees with the booking
		s.log.LogReconciliationNeeded(ctx, "success_without_confirmation", payment.TransactionID, confirmErr)
		s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, payment.TransactionID, map[string]interface{}{
			"kind":       "success_without_confirmation",
			"booking_id": payment.BookingID.String(),
		}))
		if err != nil {
			return nil, fmt.Errorf("rollback payment: %w", err)
		}
		return nil, fmt.Errorf("payment resolved but rollback lost the status race: %w", confirmErr)
	}

	payment.Status = StatusFailed
	payment.GatewayResponse = response

	s.log.LogReconciliationNeeded(ctx, "confirmation_failed_rolled_back", payment.TransactionID, confirmErr)
	s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, payment.TransactionID, map[string]interface{}{
		"kind":       "confirmation_failed_rolled_back",
		"booking_id": payment.BookingID.String(),
	}))
	s.publish(ctx, notifications.NewEvent(notifications.EventPaymentFailed, payment.TransactionID, map[string]interface{}{
		"booking_id": payment.BookingID.String(),
		"reason":     response,
	}))

	return payment, nil
}

// Verify reports whether a payment exists and settled SUCCESS
func (s *service) Verify(ctx context.Context, transactionID string) (bool, error) {
	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return false, nil
		}
		return false, err
	}
	return payment.Status == StatusSuccess, nil
}

// RecordRefund flips a SUCCESS payment to REFUNDED and writes a refund
// ledger row with the negated amount, keeping the original charge and
// the refund as distinct auditable facts. Booking cancellation is the
// refund coordinator's job, not this method's.
func (s *service) RecordRefund(ctx context.Context, transactionID string, amount decimal.Decimal, reason string) (*Payment, error) {
	original, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.IsRefund || original.Status != StatusSuccess {
		return nil, ErrNotRefundable
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidRefundAmount
	}
	if amount.GreaterThan(original.Amount) {
		return nil, ErrRefundExceedsPayment
	}

	refundTransactionID, err := s.ids.Next(ctx)
	if err != nil {
		return nil, err
	}

	processedAt := s.now().UTC()
	ok, err := s.repo.UpdateStatusIf(ctx, original.ID, StatusSuccess, StatusRefunded, "", &processedAt)
	if err != nil {
		return nil, fmt.Errorf("mark payment refunded: %w", err)
	}
	if !ok {
		// Another refund won the race
		return nil, ErrNotRefundable
	}

	refund := &Payment{
		TransactionID:   refundTransactionID,
		BookingID:       original.BookingID,
		Amount:          amount.Neg(),
		Method:          original.Method,
		Status:          StatusRefunded,
		GatewayResponse: fmt.Sprintf("refund of %s: %s", transactionID, reason),
		IsRefund:        true,
		ProcessedAt:     &processedAt,
	}
	if err := s.repo.Create(ctx, refund); err != nil {
		// The original already reads REFUNDED; without the ledger row the
		// refund amount is unrecorded, which must not go unnoticed.
		s.log.LogReconciliationNeeded(ctx, "refund_row_missing", transactionID, err)
		s.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, transactionID, map[string]interface{}{
			"kind":       "refund_row_missing",
			"booking_id": original.BookingID.String(),
			"amount":     amount.StringFixed(2),
		}))
		return nil, fmt.Errorf("persist refund: %w", err)
	}

	s.log.LogRefundProcessed(ctx, transactionID, refundTransactionID)
	s.publish(ctx, notifications.NewEvent(notifications.EventRefundProcessed, refundTransactionID, map[string]interface{}{
		"original_transaction_id": transactionID,
		"booking_id":              original.BookingID.String(),
		"amount":                  amount.StringFixed(2),
	}))

	return refund, nil
}

// GetByTransactionID retrieves a payment by its transaction identifier
func (s *service) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	return s.repo.GetByTransactionID(ctx, transactionID)
}

// ListByBooking retrieves all payment rows for a booking, refunds included
func (s *service) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *service) publish(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish payment event", err, map[string]interface{}{
			"type":      event.Type,
			"entity_id": event.EntityID,
		})
	}
}
