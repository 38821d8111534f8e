package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", BackendCSV, "CSV", BackendSQLite} {
		t.Run("backend="+backend, func(t *testing.T) {
			path := filepath.Join(dir, backend+"data")
			if backend == BackendSQLite {
				path = filepath.Join(dir, "fintrack.db")
			}
			s, err := Open(ctx, backend, path)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Save(ctx, model.Snapshot{Owner: "Uzzam", Accounts: []model.AccountSpec{
				{ID: "ACC001", Kind: model.AccountKindChecking, Name: "Main"},
			}}))
			snap, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, snap.Accounts, 1)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
