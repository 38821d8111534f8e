package tracker

import (
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

func fixedClock() time.Time { return date(2025, 1, 1) }

func newTracker() *Tracker {
	return New("Uzzam", WithClock(fixedClock))
}

func checkingSpec(opening string) model.AccountSpec {
	return model.AccountSpec{
		Kind:           model.AccountKindChecking,
		Name:           "Main Checking",
		OpeningBalance: dec(opening),
		OverdraftLimit: dec("500"),
		MonthlyFee:     dec("10"),
		MinimumBalance: dec("500"),
	}
}

func savingsSpec(opening string) model.AccountSpec {
	return model.AccountSpec{
		Kind:           model.AccountKindSavings,
		Name:           "Rainy Day",
		OpeningBalance: dec(opening),
		MinimumBalance: dec("100"),
		InterestRate:   dec("0.10"),
	}
}

func cardSpec(debt string) model.AccountSpec {
	return model.AccountSpec{
		Kind:         model.AccountKindCreditCard,
		Name:         "Travel Card",
		CreditLimit:  dec("5000"),
		OpeningDebt:  dec(debt),
		InterestRate: dec("0.24"),
	}
}

func spend(t *testing.T, tr *Tracker, accountID string, on time.Time, amount string, cat model.Category, desc string) model.Transaction {
	t.Helper()
	tx, err := tr.AddTransaction(accountID, model.Transaction{
		Date:        on,
		Amount:      dec(amount),
		Category:    cat,
		Description: desc,
	})
	require.NoError(t, err)
	return tx
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}
