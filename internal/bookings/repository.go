package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the storage contract for bookings. TransitionStatus is a
// compare-and-swap on the status column; concurrent transitions on one
// booking serialize through it without a separate lock.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByTicketID(ctx context.Context, ticketID string) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)
	ExistsActiveForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ExistsTicketID(ctx context.Context, ticketID string) (bool, error)

	// TransitionStatus updates the status only when the current status is
	// one of from. Returns false with no mutation otherwise.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status, cancelledAt *time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed booking repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByTicketID(ctx context.Context, ticketID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	if limit <= 0 {
		limit = 10
	}
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ExistsActiveForUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Where("status IN ?", []Status{StatusPending, StatusConfirmed}).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsTicketID(ctx context.Context, ticketID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status, cancelledAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	res := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
