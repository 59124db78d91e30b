package database

import (
	"fmt"
	"log"

	"eventhub/internal/bookings"
	"eventhub/internal/inventory"
	"eventhub/internal/payments"

	"gorm.io/gorm"
)

// Migrate runs schema migrations for all engine entities
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 is used for primary key defaults
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	if err := db.AutoMigrate(
		&inventory.EventInventory{},
		&bookings.Booking{},
		&payments.Payment{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// At most one non-refund payment row per booking, enforced where
	// concurrent writers actually meet
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_original_per_booking
		ON payments (booking_id) WHERE is_refund = false`).Error; err != nil {
		return fmt.Errorf("failed to create payment uniqueness index: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
