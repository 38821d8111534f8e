package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sample() model.Snapshot {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	return model.Snapshot{
		Owner: "Uzzam",
		Accounts: []model.AccountSpec{
			{ID: "ACC002", Kind: model.AccountKindSavings, Name: "Rainy Day", Owner: "Uzzam",
				MinimumBalance: dec("100"), InterestRate: dec("0.045"), WithdrawalLimit: 6},
			{ID: "ACC001", Kind: model.AccountKindChecking, Name: "Main", Owner: "Uzzam",
				OpeningBalance: dec("700"), OverdraftLimit: dec("500"), MonthlyFee: dec("10"), MinimumBalance: dec("500")},
		},
		Transactions: []model.Transaction{
			{ID: "TXN-3", AccountID: "ACC001", Date: day(9), Amount: dec("-12.34"), Category: model.CategoryFood, Description: "Deli"},
			{ID: "TXN-1", AccountID: "ACC001", Date: day(1), Amount: dec("700"), Category: model.CategoryIncome, Description: "Opening balance"},
			{ID: "TXN-2", AccountID: "ACC002", Date: day(2), Amount: dec("1000"), Category: model.CategoryIncome},
		},
	}
}

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "fintrack.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestLoadEmpty(t *testing.T) {
	s, _ := openTemp(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Owner)
	assert.Empty(t, snap.Accounts)
	assert.Empty(t, snap.Transactions)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	want := sample()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Uzzam", got.Owner)
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, "ACC002", got.Accounts[0].ID, "account order is preserved")
	assert.Equal(t, 6, got.Accounts[0].WithdrawalLimit)
	assert.True(t, got.Accounts[0].InterestRate.Equal(dec("0.045")))
	assert.True(t, got.Accounts[1].OverdraftLimit.Equal(dec("500")))

	require.Len(t, got.Transactions, 3)
	for i, tx := range want.Transactions {
		assert.Equal(t, tx.ID, got.Transactions[i].ID, "insertion order is preserved")
		assert.True(t, tx.Date.Equal(got.Transactions[i].Date))
		assert.True(t, tx.Amount.Equal(got.Transactions[i].Amount))
		assert.Equal(t, tx.Category, got.Transactions[i].Category)
		assert.Equal(t, tx.Description, got.Transactions[i].Description)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.Save(ctx, sample()))

	smaller := sample()
	smaller.Accounts = smaller.Accounts[1:]
	smaller.Transactions = smaller.Transactions[:2]
	require.NoError(t, s.Save(ctx, smaller))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Accounts, 1)
	assert.Len(t, got.Transactions, 2)
}

func TestSaveRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	require.NoError(t, s.Save(ctx, sample()))

	bad := sample()
	bad.Transactions = append(bad.Transactions, bad.Transactions[0]) // duplicate ID
	require.Error(t, s.Save(ctx, bad))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Transactions, 3)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Save(ctx, sample()))
	require.NoError(t, s.Close())

	again, err := Open(ctx, path)
	require.NoError(t, err)
	defer again.Close()

	got, err := again.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Transactions, 3)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
