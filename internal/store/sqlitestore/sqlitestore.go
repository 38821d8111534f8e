// Package sqlitestore keeps a snapshot in a single SQLite database file.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at dbPath and migrates it.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the owner, accounts and transactions in stored order.
func (s *Store) Load(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot

	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'owner'`).Scan(&snap.Owner)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("load owner: %w", err)
	}

	specs, err := s.loadAccounts(ctx)
	if err != nil {
		return snap, err
	}
	snap.Accounts = specs

	txns, err := s.loadTransactions(ctx)
	if err != nil {
		return snap, err
	}
	snap.Transactions = txns
	return snap, nil
}

func (s *Store) loadAccounts(ctx context.Context) ([]model.AccountSpec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name, owner, opening_balance, overdraft_limit, monthly_fee,
		       minimum_balance, interest_rate, withdrawal_limit, credit_limit,
		       opening_debt, reward_rate
		FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var specs []model.AccountSpec
	for rows.Next() {
		var (
			spec model.AccountSpec
			kind string
		)
		if err := rows.Scan(
			&spec.ID, &kind, &spec.Name, &spec.Owner,
			&spec.OpeningBalance, &spec.OverdraftLimit, &spec.MonthlyFee,
			&spec.MinimumBalance, &spec.InterestRate, &spec.WithdrawalLimit,
			&spec.CreditLimit, &spec.OpeningDebt, &spec.RewardRate,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		spec.Kind, err = model.ParseAccountKind(kind)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", spec.ID, err)
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, date, amount, category, description
		FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			t        model.Transaction
			date     string
			category string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &date, &t.Amount, &category, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parsing date %q: %w", t.ID, date, err)
		}
		t.Category, err = model.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// Save replaces the stored snapshot in one SQL transaction.
func (s *Store) Save(ctx context.Context, snap model.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM transactions`, `DELETE FROM accounts`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('owner', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, snap.Owner); err != nil {
		return fmt.Errorf("save owner: %w", err)
	}

	for i, spec := range snap.Accounts {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO accounts (position, id, kind, name, owner, opening_balance,
			    overdraft_limit, monthly_fee, minimum_balance, interest_rate,
			    withdrawal_limit, credit_limit, opening_debt, reward_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, spec.ID, string(spec.Kind), spec.Name, spec.Owner,
			text(spec.OpeningBalance), text(spec.OverdraftLimit), text(spec.MonthlyFee),
			text(spec.MinimumBalance), text(spec.InterestRate), spec.WithdrawalLimit,
			text(spec.CreditLimit), text(spec.OpeningDebt), text(spec.RewardRate),
		); err != nil {
			return fmt.Errorf("insert account %s: %w", spec.ID, err)
		}
	}

	for _, t := range snap.Transactions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, account_id, date, amount, category, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.AccountID, t.Date.Format(dateFormat), text(t.Amount), string(t.Category), t.Description,
		); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// text stores decimals as exact strings.
func text(d decimal.Decimal) string {
	return d.String()
}
