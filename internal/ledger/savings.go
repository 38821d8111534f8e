package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// DefaultWithdrawalLimit caps savings withdrawals per calendar month.
const DefaultWithdrawalLimit = 6

// Savings earns monthly interest, must keep a minimum balance, and allows a
// limited number of withdrawals per calendar month.
type Savings struct {
	ledger
}

func newSavings(spec model.AccountSpec) *Savings {
	if spec.WithdrawalLimit == 0 {
		spec.WithdrawalLimit = DefaultWithdrawalLimit
	}
	return &Savings{ledger: newLedger(spec)}
}

// MinimumBalance is the floor withdrawals may not cross.
func (s *Savings) MinimumBalance() decimal.Decimal { return s.spec.MinimumBalance }

// InterestRate is the annual rate.
func (s *Savings) InterestRate() decimal.Decimal { return s.spec.InterestRate }

// WithdrawalLimit is the per-month withdrawal cap.
func (s *Savings) WithdrawalLimit() int { return s.spec.WithdrawalLimit }

// MonthlyWithdrawalCount counts withdrawals in the current period, which is
// the calendar month of the latest-dated transaction. The count resets when
// a transaction lands in a later month.
func (s *Savings) MonthlyWithdrawalCount() int {
	if len(s.txns) == 0 {
		return 0
	}
	latest := s.txns[0].Date
	for _, t := range s.txns[1:] {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return s.withdrawalsIn(model.MonthOf(latest))
}

func (s *Savings) withdrawalsIn(p model.Period) int {
	n := 0
	for _, t := range s.txns {
		if t.IsDebit() && p.Contains(t.Date) {
			n++
		}
	}
	return n
}

func (s *Savings) AvailableFunds() decimal.Decimal {
	return decimal.Max(decimal.Zero, s.balance.Sub(s.spec.MinimumBalance))
}

func (s *Savings) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		s.MonthlyWithdrawalCount() < s.spec.WithdrawalLimit &&
		amount.LessThanOrEqual(s.AvailableFunds())
}

func (s *Savings) AddTransaction(t model.Transaction) error { return s.add(t, s) }

func (s *Savings) Replay(t model.Transaction) error { return s.replay(t, s) }

func (s *Savings) ApplyMonthlyFees(on time.Time) (decimal.Decimal, error) {
	if !s.balance.IsPositive() {
		return decimal.Zero, nil
	}
	interest := monthlyRate(s.balance, s.spec.InterestRate)
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}
	s.postFee(interest, on, model.CategoryIncome, "Interest earned", s)
	return interest.Neg(), nil
}

func (s *Savings) checkWithdrawal(amount decimal.Decimal, on time.Time) error {
	if n := s.withdrawalsIn(model.MonthOf(on)); n >= s.spec.WithdrawalLimit {
		return fmt.Errorf("%w: %d of %d withdrawals already made in %s",
			ErrWithdrawalLimitExceeded, n, s.spec.WithdrawalLimit, on.Format("2006-01"))
	}
	if available := s.AvailableFunds(); amount.GreaterThan(available) {
		return insufficient(amount, available)
	}
	return nil
}

func (s *Savings) applied(model.Transaction) {}
