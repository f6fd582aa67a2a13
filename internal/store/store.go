// Package store provides read access to the case record tables.
//
// A Store returns whole tables in their stored order; selecting a single
// case's records is the caller's job. Backends never write, and callers must
// treat returned slices as read-only because decorators may share them.
package store

import (
	"context"

	"github.com/JustJay7/case-status-portal/internal/database"
)

type Store interface {
	Users(ctx context.Context) ([]database.CaseUser, error)
	Payments(ctx context.Context) ([]database.Payment, error)
	Lawyers(ctx context.Context) ([]database.Lawyer, error)
	CourtVisits(ctx context.Context) ([]database.CourtVisit, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
