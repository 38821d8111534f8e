package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single monetary movement owned by one account.
// It is never mutated after creation; corrections are new offsetting
// transactions.
type Transaction struct {
	ID          string
	AccountID   string
	Date        time.Time       // calendar date, UTC midnight
	Amount      decimal.Decimal // negative = debit, positive = credit
	Category    Category
	Description string
}

// IsDebit reports whether the transaction decreases the account balance.
func (t Transaction) IsDebit() bool { return t.Amount.IsNegative() }

// IsCredit reports whether the transaction increases the account balance.
func (t Transaction) IsCredit() bool { return t.Amount.IsPositive() }

// Magnitude returns the absolute amount.
func (t Transaction) Magnitude() decimal.Decimal { return t.Amount.Abs() }

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
