package store

import (
	"context"
	"fmt"

	"github.com/JustJay7/case-status-portal/internal/database"
	"gorm.io/gorm"
)

// SQLStore reads the record tables from the sqlite database.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Users(ctx context.Context) ([]database.CaseUser, error) {
	var users []database.CaseUser
	if err := s.db.WithContext(ctx).Order("case_number").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

func (s *SQLStore) Payments(ctx context.Context) ([]database.Payment, error) {
	var payments []database.Payment
	if err := s.db.WithContext(ctx).Order("id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	return payments, nil
}

func (s *SQLStore) Lawyers(ctx context.Context) ([]database.Lawyer, error) {
	var lawyers []database.Lawyer
	if err := s.db.WithContext(ctx).Order("id").Find(&lawyers).Error; err != nil {
		return nil, fmt.Errorf("failed to query lawyers: %w", err)
	}
	return lawyers, nil
}

func (s *SQLStore) CourtVisits(ctx context.Context) ([]database.CourtVisit, error) {
	var visits []database.CourtVisit
	if err := s.db.WithContext(ctx).Order("id").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to query court visits: %w", err)
	}
	return visits, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
