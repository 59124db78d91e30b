package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines payment persistence operations
type Repository interface {
	// Create persists a payment row. A second non-refund row for the same
	// booking returns ErrDuplicatePayment.
	Create(ctx context.Context, payment *Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	ExistsOriginalForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ExistsTransactionID(ctx context.Context, transactionID string) (bool, error)

	// UpdateStatusIf flips the payment status only when the current status
	// matches from. Returns false when another writer got there first.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to Status, gatewayResponse string, processedAt *time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if err != nil && !payment.IsRefund && errors.Is(err, gorm.ErrDuplicatedKey) {
		// The partial unique index on (booking_id) WHERE is_refund = false
		// rejected a second original payment for the booking
		return ErrDuplicatePayment
	}
	return err
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) ExistsOriginalForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("booking_id = ? AND is_refund = false", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsTransactionID(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to Status, gatewayResponse string, processedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if gatewayResponse != "" {
		updates["gateway_response"] = gatewayResponse
	}
	if processedAt != nil {
		updates["processed_at"] = processedAt
	}

	result := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
