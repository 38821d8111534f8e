// Package store persists tracker snapshots.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleared-dev/fintrack/internal/model"
	"github.com/cleared-dev/fintrack/internal/store/csvstore"
	"github.com/cleared-dev/fintrack/internal/store/sqlitestore"
)

// Store loads and saves the complete state of a tracker. Save replaces
// whatever was stored before.
type Store interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

var (
	_ Store = (*csvstore.Store)(nil)
	_ Store = (*sqlitestore.Store)(nil)
)

// Open returns the backend named by backend. For csv, path is the data
// directory; for sqlite, the database file.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendCSV:
		return csvstore.New(path), nil
	case BackendSQLite:
		s, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
