package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountKind selects the account variant.
type AccountKind string

const (
	AccountKindChecking   AccountKind = "checking"
	AccountKindSavings    AccountKind = "savings"
	AccountKindCreditCard AccountKind = "credit_card"
)

// ParseAccountKind accepts the canonical names plus a few spellings used on
// the command line ("credit", "creditcard", "credit-card").
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking":
		return AccountKindChecking, nil
	case "savings":
		return AccountKindSavings, nil
	case "credit_card", "credit-card", "creditcard", "credit":
		return AccountKindCreditCard, nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// AccountSpec is the construction record for an account and doubles as its
// persisted definition. Fields that do not apply to Kind are ignored.
type AccountSpec struct {
	ID             string // empty = assign the next ACC### identifier
	Kind           AccountKind
	Name           string
	Owner          string
	OpeningBalance decimal.Decimal

	// Checking.
	OverdraftLimit decimal.Decimal
	MonthlyFee     decimal.Decimal

	// Checking (fee waiver threshold) and Savings (required floor).
	MinimumBalance decimal.Decimal

	// Savings and CreditCard; annual rate, 0.10 = 10%.
	InterestRate decimal.Decimal

	// Savings.
	WithdrawalLimit int // 0 = default of 6 per calendar month

	// CreditCard.
	CreditLimit decimal.Decimal
	OpeningDebt decimal.Decimal
	RewardRate  decimal.Decimal
}
