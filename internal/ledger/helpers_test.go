package ledger

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var txnSeq int

func txn(accountID string, on time.Time, amount string, cat model.Category) model.Transaction {
	txnSeq++
	return model.Transaction{
		ID:        fmt.Sprintf("TXN%04d", txnSeq),
		AccountID: accountID,
		Date:      on,
		Amount:    dec(amount),
		Category:  cat,
	}
}

func all(a Account) []model.Transaction {
	return slices.Collect(a.Transactions(Filter{}))
}

func openChecking(t *testing.T, overdraft string) *Checking {
	t.Helper()
	a, err := New(model.AccountSpec{
		ID:             "ACC001",
		Kind:           model.AccountKindChecking,
		Name:           "Main Checking",
		Owner:          "Uzzam",
		OverdraftLimit: dec(overdraft),
		MonthlyFee:     dec("10"),
		MinimumBalance: dec("500"),
	})
	require.NoError(t, err)
	return a.(*Checking)
}

func openSavings(t *testing.T, minimum, rate string) *Savings {
	t.Helper()
	a, err := New(model.AccountSpec{
		ID:             "ACC002",
		Kind:           model.AccountKindSavings,
		Name:           "Rainy Day",
		Owner:          "Uzzam",
		MinimumBalance: dec(minimum),
		InterestRate:   dec(rate),
	})
	require.NoError(t, err)
	return a.(*Savings)
}

func openCard(t *testing.T, limit, debt, rate string) *CreditCard {
	t.Helper()
	a, err := New(model.AccountSpec{
		ID:           "ACC003",
		Kind:         model.AccountKindCreditCard,
		Name:         "Travel Card",
		Owner:        "Uzzam",
		CreditLimit:  dec(limit),
		OpeningDebt:  dec(debt),
		InterestRate: dec(rate),
		RewardRate:   dec("0.02"),
	})
	require.NoError(t, err)
	return a.(*CreditCard)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}
