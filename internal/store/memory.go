package store

import (
	"context"

	"github.com/JustJay7/case-status-portal/internal/database"
)

// MemoryStore holds the tables in memory. It is used for fixtures and for
// embedding small record sets.
type MemoryStore struct {
	UserRecords       []database.CaseUser
	PaymentRecords    []database.Payment
	LawyerRecords     []database.Lawyer
	CourtVisitRecords []database.CourtVisit
}

func (m *MemoryStore) Users(ctx context.Context) ([]database.CaseUser, error) {
	return memTable(ctx, m.UserRecords)
}

func (m *MemoryStore) Payments(ctx context.Context) ([]database.Payment, error) {
	return memTable(ctx, m.PaymentRecords)
}

func (m *MemoryStore) Lawyers(ctx context.Context) ([]database.Lawyer, error) {
	return memTable(ctx, m.LawyerRecords)
}

func (m *MemoryStore) CourtVisits(ctx context.Context) ([]database.CourtVisit, error) {
	return memTable(ctx, m.CourtVisitRecords)
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func memTable[T any](ctx context.Context, records []T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if records == nil {
		return []T{}, nil
	}
	return records, nil
}
