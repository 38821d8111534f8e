package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Statement is the account activity for a date range.
type Statement struct {
	AccountID      string
	Name           string
	Owner          string
	Kind           model.AccountKind
	Range          model.DateRange
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalCredits   decimal.Decimal
	TotalDebits    decimal.Decimal // positive magnitude
	AvailableFunds decimal.Decimal
	Lines          []StatementLine
}

// StatementLine is one transaction with the running balance after it.
type StatementLine struct {
	Transaction model.Transaction
	Balance     decimal.Decimal
}

// NewStatement builds a statement for any account variant. The opening
// balance sums everything dated before the range; lines keep insertion
// order.
func NewStatement(a Account, r model.DateRange) Statement {
	st := Statement{
		AccountID:      a.ID(),
		Name:           a.Name(),
		Owner:          a.Owner(),
		Kind:           a.Kind(),
		Range:          r,
		OpeningBalance: decimal.Zero,
		TotalCredits:   decimal.Zero,
		TotalDebits:    decimal.Zero,
		AvailableFunds: a.AvailableFunds(),
	}

	if !r.From.IsZero() {
		before := model.DateRange{To: model.Day(r.From).AddDate(0, 0, -1)}
		for t := range a.Transactions(Filter{Range: before}) {
			st.OpeningBalance = st.OpeningBalance.Add(t.Amount)
		}
	}

	running := st.OpeningBalance
	for t := range a.Transactions(Filter{Range: r}) {
		running = running.Add(t.Amount)
		if t.IsCredit() {
			st.TotalCredits = st.TotalCredits.Add(t.Amount)
		} else {
			st.TotalDebits = st.TotalDebits.Add(t.Magnitude())
		}
		st.Lines = append(st.Lines, StatementLine{Transaction: t, Balance: running})
	}
	st.ClosingBalance = running
	return st
}
