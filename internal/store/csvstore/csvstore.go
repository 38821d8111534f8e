// Package csvstore keeps a snapshot as plain CSV files in a directory:
// accounts/accounts.csv plus one YYYY/MM/journal.csv per month.
package csvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/journal"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Store is a directory-backed snapshot store. The owner is not persisted;
// it comes from the repo config.
type Store struct {
	root string
}

// New returns a Store rooted at dir. Nothing is touched until Load or Save.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the data directory.
func (s *Store) Root() string { return s.root }

// Load reads every account and journal. A directory without accounts.csv
// loads as an empty snapshot.
func (s *Store) Load(_ context.Context) (model.Snapshot, error) {
	accts, err := accounts.Load(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Snapshot{}, nil
	}
	if err != nil {
		return model.Snapshot{}, err
	}

	jsvc := journal.NewService(s.root, accts)
	months, err := jsvc.Months()
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{Accounts: accts.All()}
	for _, m := range months {
		txns, err := jsvc.ReadMonth(m.Year, m.Month)
		if err != nil {
			return model.Snapshot{}, err
		}
		if err := journal.Join(journal.ValidateMonth(txns, accts, m.Year, m.Month)); err != nil {
			return model.Snapshot{}, fmt.Errorf("journal %04d-%02d: %w", m.Year, m.Month, err)
		}
		snap.Transactions = append(snap.Transactions, txns...)
	}
	return snap, nil
}

// Save rewrites accounts.csv and every month touched by the snapshot, and
// removes journals for months that no longer hold transactions. Every month
// is validated before anything is written.
func (s *Store) Save(_ context.Context, snap model.Snapshot) error {
	accts := accounts.NewService(snap.Accounts)

	byMonth := make(map[journal.Month][]model.Transaction)
	var order []journal.Month
	for _, t := range snap.Transactions {
		m := journal.Month{Year: t.Date.Year(), Month: int(t.Date.Month())}
		if _, ok := byMonth[m]; !ok {
			order = append(order, m)
		}
		byMonth[m] = append(byMonth[m], t)
	}

	for _, m := range order {
		if err := journal.Join(journal.ValidateMonth(byMonth[m], accts, m.Year, m.Month)); err != nil {
			return fmt.Errorf("saving %04d-%02d: %w", m.Year, m.Month, err)
		}
	}
	if err := accts.Save(s.root); err != nil {
		return err
	}

	jsvc := journal.NewService(s.root, accts)
	stale, err := jsvc.Months()
	if err != nil {
		return err
	}
	for _, m := range stale {
		if _, ok := byMonth[m]; ok {
			continue
		}
		if err := jsvc.RemoveMonth(m.Year, m.Month); err != nil {
			return err
		}
	}
	for _, m := range order {
		if err := jsvc.WriteMonth(m.Year, m.Month, byMonth[m]); err != nil {
			return fmt.Errorf("saving %04d-%02d: %w", m.Year, m.Month, err)
		}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
