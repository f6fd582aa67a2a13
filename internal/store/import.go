package store

import (
	"context"
	"fmt"

	"github.com/JustJay7/case-status-portal/internal/database"
	"gorm.io/gorm"
)

// ImportStats counts the records written by Import.
type ImportStats struct {
	Users          int `json:"users"`
	Payments       int `json:"payments"`
	Lawyers        int `json:"lawyers"`
	CourtVisits    int `json:"court_visits"`
	HashedPassword int `json:"hashed_passwords"`
}

// HashFunc turns a plaintext password into a stored hash.
type HashFunc func(plain string) (string, error)

const importBatchSize = 100

// Import replaces the contents of the sqlite tables with the tables read from
// src. Users carrying a legacy plaintext password get it hashed with hash; a
// user with neither a hash nor a password aborts the import.
func Import(ctx context.Context, src Store, db *gorm.DB, hash HashFunc) (*ImportStats, error) {
	users, err := src.Users(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := src.Payments(ctx)
	if err != nil {
		return nil, err
	}
	lawyers, err := src.Lawyers(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := src.CourtVisits(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{}
	prepared := make([]database.CaseUser, 0, len(users))
	for _, u := range users {
		if u.ID == "" {
			return nil, fmt.Errorf("user with case %s has no id", u.CaseNumber)
		}
		if u.PasswordHash == "" {
			if u.Password == "" {
				return nil, fmt.Errorf("user %s (case %s) has no password", u.ID, u.CaseNumber)
			}
			h, err := hash(u.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password for case %s: %w", u.CaseNumber, err)
			}
			u.PasswordHash = h
			stats.HashedPassword++
		}
		u.Password = ""
		prepared = append(prepared, u)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&database.CourtVisit{}, &database.Lawyer{}, &database.Payment{}, &database.CaseUser{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if err := createAll(tx, prepared); err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
		if err := createAll(tx, resetIDs(payments, func(p *database.Payment) { p.ID = 0 })); err != nil {
			return fmt.Errorf("failed to import payments: %w", err)
		}
		if err := createAll(tx, resetIDs(lawyers, func(l *database.Lawyer) { l.ID = 0 })); err != nil {
			return fmt.Errorf("failed to import lawyers: %w", err)
		}
		if err := createAll(tx, resetIDs(visits, func(v *database.CourtVisit) { v.ID = 0 })); err != nil {
			return fmt.Errorf("failed to import court visits: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.Users = len(prepared)
	stats.Payments = len(payments)
	stats.Lawyers = len(lawyers)
	stats.CourtVisits = len(visits)
	return stats, nil
}

func createAll[T any](tx *gorm.DB, records []T) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, importBatchSize).Error
}

// resetIDs copies records with their surrogate keys cleared so sqlite assigns
// fresh ones.
func resetIDs[T any](records []T, reset func(*T)) []T {
	out := make([]T, len(records))
	copy(out, records)
	for i := range out {
		reset(&out[i])
	}
	return out
}
