package refunds

import (
	"context"

	"eventhub/internal/notifications"
	"eventhub/internal/payments"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService is the slice of the payment side a refund needs
type PaymentService interface {
	RecordRefund(ctx context.Context, transactionID string, amount decimal.Decimal, reason string) (*payments.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error)
}

// BookingService cancels the booking whose payment was refunded
type BookingService interface {
	Cancel(ctx context.Context, bookingID uuid.UUID) error
}

// Notifier publishes engine events
type Notifier interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// Coordinator sequences a refund across the payment ledger and the
// booking state machine. The ledger write is the source of truth; a
// cancellation failure after it never undoes the refund, it surfaces as
// a reconciliation signal instead.
type Coordinator struct {
	payments PaymentService
	bookings BookingService
	notifier Notifier
	log      *logger.Logger
}

// NewCoordinator creates a new refund coordinator
func NewCoordinator(paymentService PaymentService, bookingService BookingService, notifier Notifier, log *logger.Logger) *Coordinator {
	return &Coordinator{
		payments: paymentService,
		bookings: bookingService,
		notifier: notifier,
		log:      log,
	}
}

// Refund records the refund against the original payment, then cancels
// the booking so its seats return to the pool.
func (c *Coordinator) Refund(ctx context.Context, transactionID string, amount decimal.Decimal, reason string) (*payments.Payment, error) {
	refund, err := c.payments.RecordRefund(ctx, transactionID, amount, reason)
	if err != nil {
		return nil, err
	}

	if err := c.bookings.Cancel(ctx, refund.BookingID); err != nil {
		// The refund stands; the booking is now out of step with it
		c.log.LogReconciliationNeeded(ctx, "refunded_without_cancellation", transactionID, err)
		c.publish(ctx, notifications.NewEvent(notifications.EventReconciliationNeeded, transactionID, map[string]interface{}{
			"kind":       "refunded_without_cancellation",
			"booking_id": refund.BookingID.String(),
			"amount":     amount.StringFixed(2),
		}))
	}

	return refund, nil
}

func (c *Coordinator) publish(ctx context.Context, event notifications.Event) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Publish(ctx, event); err != nil {
		c.log.ErrorWithContext(ctx, "failed to publish refund event", err, map[string]interface{}{
			"type":      event.Type,
			"entity_id": event.EntityID,
		})
	}
}
