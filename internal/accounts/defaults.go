package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Defaults are the parameters filled into new accounts when the user does
// not supply them.
type Defaults struct {
	CheckingMonthlyFee     decimal.Decimal
	CheckingMinimumBalance decimal.Decimal
	SavingsWithdrawalLimit int
}

// StandardDefaults returns a $10 checking fee waived at a $500 balance and
// six savings withdrawals a month.
func StandardDefaults() Defaults {
	return Defaults{
		CheckingMonthlyFee:     decimal.NewFromInt(10),
		CheckingMinimumBalance: decimal.NewFromInt(500),
		SavingsWithdrawalLimit: ledger.DefaultWithdrawalLimit,
	}
}

// Apply fills the unset parameters of spec that d covers.
func (d Defaults) Apply(spec model.AccountSpec) model.AccountSpec {
	switch spec.Kind {
	case model.AccountKindChecking:
		if spec.MonthlyFee.IsZero() {
			spec.MonthlyFee = d.CheckingMonthlyFee
		}
		if spec.MinimumBalance.IsZero() {
			spec.MinimumBalance = d.CheckingMinimumBalance
		}
	case model.AccountKindSavings:
		if spec.WithdrawalLimit == 0 {
			spec.WithdrawalLimit = d.SavingsWithdrawalLimit
		}
	}
	return spec
}

// StarterAccounts returns the accounts created by `fintrack init --starter`:
// one checking and one savings account with no balance.
func StarterAccounts(owner string, d Defaults) []model.AccountSpec {
	return []model.AccountSpec{
		d.Apply(model.AccountSpec{ID: "ACC001", Kind: model.AccountKindChecking, Name: "Everyday Checking", Owner: owner}),
		d.Apply(model.AccountSpec{ID: "ACC002", Kind: model.AccountKindSavings, Name: "Savings", Owner: owner}),
	}
}
