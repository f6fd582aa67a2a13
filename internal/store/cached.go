package store

import (
	"context"

	"github.com/JustJay7/case-status-portal/internal/cache"
	"github.com/JustJay7/case-status-portal/internal/database"
)

// CachedStore serves table reads from a TTL cache in front of another Store.
type CachedStore struct {
	next  Store
	cache cache.Cache
}

func NewCachedStore(next Store, c cache.Cache) *CachedStore {
	return &CachedStore{next: next, cache: c}
}

func (s *CachedStore) Users(ctx context.Context) ([]database.CaseUser, error) {
	return cachedTable(ctx, s.cache, database.TableUsers, s.next.Users)
}

func (s *CachedStore) Payments(ctx context.Context) ([]database.Payment, error) {
	return cachedTable(ctx, s.cache, database.TablePayments, s.next.Payments)
}

func (s *CachedStore) Lawyers(ctx context.Context) ([]database.Lawyer, error) {
	return cachedTable(ctx, s.cache, database.TableLawyers, s.next.Lawyers)
}

func (s *CachedStore) CourtVisits(ctx context.Context) ([]database.CourtVisit, error) {
	return cachedTable(ctx, s.cache, database.TableCourtVisits, s.next.CourtVisits)
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Stats exposes the underlying cache statistics.
func (s *CachedStore) Stats() cache.CacheStats {
	return s.cache.Stats()
}

// Invalidate drops every cached table.
func (s *CachedStore) Invalidate() {
	s.cache.Clear()
}

func cachedTable[T any](ctx context.Context, c cache.Cache, table string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := cache.GenerateCacheKey("table", table)
	if v, found := c.Get(key); found {
		if records, ok := v.([]T); ok {
			return records, nil
		}
	}

	records, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.Set(key, records)
	return records, nil
}
