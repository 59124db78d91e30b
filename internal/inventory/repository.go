package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the storage contract for event inventories. The two seat
// mutations are single conditional updates: the store either applies the
// whole change or none of it, so no lost-update window exists between a
// read-side check and the write.
type Repository interface {
	Create(ctx context.Context, inv *EventInventory) error
	GetByID(ctx context.Context, id uuid.UUID) (*EventInventory, error)
	List(ctx context.Context) ([]EventInventory, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// DecrementSeats atomically subtracts quantity from available_seats,
	// guarded by is_active, a future event_date_time and sufficient
	// availability. Returns false with no mutation when any guard fails.
	DecrementSeats(ctx context.Context, id uuid.UUID, quantity int, now time.Time) (bool, error)

	// IncrementSeats atomically adds quantity to available_seats, guarded
	// by available_seats+quantity <= total_seats. Returns false with no
	// mutation when the cap would be exceeded or the row is missing.
	IncrementSeats(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed inventory repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *EventInventory) error {
	if inv.AvailableSeats == 0 {
		inv.AvailableSeats = inv.TotalSeats
	}
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*EventInventory, error) {
	var inv EventInventory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context) ([]EventInventory, error) {
	var inventories []EventInventory
	err := r.db.WithContext(ctx).
		Order("event_date_time ASC").
		Find(&inventories).Error
	return inventories, err
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&EventInventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) DecrementSeats(ctx context.Context, id uuid.UUID, quantity int, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&EventInventory{}).
		Where("id = ? AND is_active = ? AND event_date_time > ? AND available_seats >= ?",
			id, true, now, quantity).
		Updates(map[string]interface{}{
			"available_seats": gorm.Expr("available_seats - ?", quantity),
			"updated_at":      now.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) IncrementSeats(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&EventInventory{}).
		Where("id = ? AND available_seats + ? <= total_seats", id, quantity).
		Updates(map[string]interface{}{
			"available_seats": gorm.Expr("available_seats + ?", quantity),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
