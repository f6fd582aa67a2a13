package database

import (
	"fmt"

	"gorm.io/gorm"
)

// createIndexes adds the per-case lookup indexes used by the dashboard reads.
func createIndexes(db *gorm.DB) error {
	// Payments by case, newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payments_case_date
		ON payments(case_number, payment_date)
	`).Error; err != nil {
		return fmt.Errorf("failed to create payments index: %w", err)
	}

	// Court visits by case, newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_court_visits_case_date
		ON court_visits(case_number, date)
	`).Error; err != nil {
		return fmt.Errorf("failed to create court visits index: %w", err)
	}

	return nil
}
