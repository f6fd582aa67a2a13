package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JustJay7/case-status-portal/internal/cache"
	"github.com/JustJay7/case-status-portal/internal/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const usersJSON = `[
  {"id": "1", "case_number": "FM-1001", "first_name": "Maria", "last_name": "Garcia",
   "status": "active", "total_amount": 10000, "password": "secret1"},
  {"id": "2", "case_number": "FM-1002", "first_name": "James", "last_name": "Smith",
   "status": "active", "total_amount": "2500.75", "password_hash": "$2a$10$existing"}
]`

const paymentsJSON = `[
  {"case_number": "FM-1001", "amount": 3000, "payment_date": "2024-05-01", "status": "completed", "reference_id": "PAY-1"},
  {"case_number": "FM-1002", "amount": 500.25, "payment_date": "2024-05-02T09:00:00Z", "status": "completed", "reference_id": "PAY-2"}
]`

const lawyersJSON = `[
  {"case_number": "FM-1001", "name": "Sarah Johnson", "email": "sjohnson@example.com", "bar_number": "CA-1"}
]`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newJSONDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "users.json", usersJSON)
	writeFile(t, dir, "payments.json", paymentsJSON)
	writeFile(t, dir, "lawyers.json", lawyersJSON)
	return dir
}

func TestJSONStoreReadsTables(t *testing.T) {
	s := NewJSONStore(newJSONDir(t))
	ctx := context.Background()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "FM-1001", users[0].CaseNumber)
	assert.True(t, users[1].TotalAmount.Equal(decimal.RequireFromString("2500.75")))

	payments, err := s.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 2024, payments[0].PaymentDate.Year())

	lawyers, err := s.Lawyers(ctx)
	require.NoError(t, err)
	assert.Len(t, lawyers, 1)

	visits, err := s.CourtVisits(ctx)
	require.NoError(t, err, "absent table reads as empty")
	assert.NotNil(t, visits)
	assert.Empty(t, visits)

	assert.NoError(t, s.Ping(ctx))
}

func TestJSONStoreErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payments.json", `{"not": "an array"}`)
	writeFile(t, dir, "lawyers.json", "  \n")
	s := NewJSONStore(dir)

	_, err := s.Payments(context.Background())
	assert.Error(t, err)

	lawyers, err := s.Lawyers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lawyers)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Users(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Error(t, NewJSONStore(filepath.Join(dir, "missing")).Ping(context.Background()))
}

type countingStore struct {
	Store
	userLoads int
	fail      bool
}

func (c *countingStore) Users(ctx context.Context) ([]database.CaseUser, error) {
	c.userLoads++
	if c.fail {
		return nil, errors.New("disk on fire")
	}
	return c.Store.Users(ctx)
}

func TestCachedStoreServesFromCache(t *testing.T) {
	inner := &countingStore{Store: NewJSONStore(newJSONDir(t))}
	s := NewCachedStore(inner, cache.NewCache(10, time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		users, err := s.Users(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	}
	assert.Equal(t, 1, inner.userLoads)
	assert.EqualValues(t, 2, s.Stats().Hits)

	s.Invalidate()
	_, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.userLoads)
}

func TestCachedStoreDoesNotCacheErrors(t *testing.T) {
	inner := &countingStore{Store: NewJSONStore(t.TempDir()), fail: true}
	s := NewCachedStore(inner, cache.NewCache(10, time.Minute))

	_, err := s.Users(context.Background())
	assert.Error(t, err)

	inner.fail = false
	users, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 2, inner.userLoads)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fakeHash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func TestImportIntoSQLStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	stats, err := Import(ctx, NewJSONStore(newJSONDir(t)), db, fakeHash)
	require.NoError(t, err)
	assert.Equal(t, &ImportStats{Users: 2, Payments: 2, Lawyers: 1, CourtVisits: 0, HashedPassword: 1}, stats)

	s := NewSQLStore(db)
	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "hashed:secret1", users[0].PasswordHash)
	assert.Equal(t, "$2a$10$existing", users[1].PasswordHash)
	assert.Empty(t, users[0].Password)

	payments, err := s.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[1].Amount.Equal(decimal.RequireFromString("500.25")))
	assert.True(t, payments[0].PaymentDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	// a second import replaces rather than duplicates
	_, err = Import(ctx, NewJSONStore(newJSONDir(t)), db, fakeHash)
	require.NoError(t, err)
	payments, err = s.Payments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	assert.NoError(t, s.Ping(ctx))
}

func TestImportRejectsUserWithoutPassword(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `[{"id": "9", "case_number": "FM-9", "last_name": "Doe"}]`)

	_, err := Import(context.Background(), NewJSONStore(dir), newTestDB(t), fakeHash)
	assert.Error(t, err)
}

func TestJSONStoreAcceptsNumericIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `[
	  {"id": 1, "case_number": "FM-1001", "last_name": "Garcia", "password_hash": "$2a$10$x"},
	  {"id": "u-2", "case_number": "FM-1002", "last_name": "Smith", "password_hash": "$2a$10$y"}
	]`)
	ctx := context.Background()

	users, err := NewJSONStore(dir).Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, database.RecordID("1"), users[0].ID)
	assert.Equal(t, database.RecordID("u-2"), users[1].ID)
	assert.Equal(t, "1", users[0].Profile().ID)

	db := newTestDB(t)
	_, err = Import(ctx, NewJSONStore(dir), db, fakeHash)
	require.NoError(t, err)

	stored, err := NewSQLStore(db).Users(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, database.RecordID("1"), stored[0].ID)
}

func TestImportRejectsUserWithoutID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `[{"case_number": "FM-9", "last_name": "Doe", "password": "pw"}]`)

	_, err := Import(context.Background(), NewJSONStore(dir), newTestDB(t), fakeHash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no id")
}
