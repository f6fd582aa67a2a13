package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JustJay7/case-status-portal/internal/database"
)

// JSONStore reads each table from <dir>/<table>.json. A missing file is an
// empty table.
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Users(ctx context.Context) ([]database.CaseUser, error) {
	return readTable[database.CaseUser](ctx, s.dir, database.TableUsers)
}

func (s *JSONStore) Payments(ctx context.Context) ([]database.Payment, error) {
	return readTable[database.Payment](ctx, s.dir, database.TablePayments)
}

func (s *JSONStore) Lawyers(ctx context.Context) ([]database.Lawyer, error) {
	return readTable[database.Lawyer](ctx, s.dir, database.TableLawyers)
}

func (s *JSONStore) CourtVisits(ctx context.Context) ([]database.CourtVisit, error) {
	return readTable[database.CourtVisit](ctx, s.dir, database.TableCourtVisits)
}

func (s *JSONStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func readTable[T any](ctx context.Context, dir, table string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, table+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", table, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
