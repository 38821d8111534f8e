package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Checking is a transactional account that may overdraw down to its
// overdraft limit and pays a flat monthly fee below a minimum balance.
type Checking struct {
	ledger
	checks map[int]struct{}
}

func newChecking(spec model.AccountSpec) *Checking {
	return &Checking{ledger: newLedger(spec), checks: make(map[int]struct{})}
}

// OverdraftLimit is how far below zero the balance may go.
func (c *Checking) OverdraftLimit() decimal.Decimal { return c.spec.OverdraftLimit }

// MonthlyFee is charged when the balance sits below MinimumBalance.
func (c *Checking) MonthlyFee() decimal.Decimal { return c.spec.MonthlyFee }

// MinimumBalance is the fee waiver threshold.
func (c *Checking) MinimumBalance() decimal.Decimal { return c.spec.MinimumBalance }

func (c *Checking) AvailableFunds() decimal.Decimal {
	return c.balance.Add(c.spec.OverdraftLimit)
}

func (c *Checking) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(c.AvailableFunds())
}

func (c *Checking) AddTransaction(t model.Transaction) error { return c.add(t, c) }

func (c *Checking) Replay(t model.Transaction) error { return c.replay(t, c) }

func (c *Checking) ApplyMonthlyFees(on time.Time) (decimal.Decimal, error) {
	if !c.spec.MonthlyFee.IsPositive() || !c.balance.LessThan(c.spec.MinimumBalance) {
		return decimal.Zero, nil
	}
	c.postFee(c.spec.MonthlyFee.Neg(), on, model.CategoryFees, "Monthly maintenance fee", c)
	return c.spec.MonthlyFee, nil
}

func (c *Checking) checkWithdrawal(amount decimal.Decimal, _ time.Time) error {
	if available := c.AvailableFunds(); amount.GreaterThan(available) {
		return insufficient(amount, available)
	}
	return nil
}

func (c *Checking) applied(t model.Transaction) {
	if n, ok := parseCheckNumber(t.Description); ok && t.IsDebit() {
		c.checks[n] = struct{}{}
	}
}

// WriteCheck debits amount payable to payee under a check number that has
// not been used on this account before.
func (c *Checking) WriteCheck(number int, amount decimal.Decimal, payee string, on time.Time) (model.Transaction, error) {
	if number <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: check number must be positive", ErrInvalidTransaction)
	}
	if _, used := c.checks[number]; used {
		return model.Transaction{}, fmt.Errorf("%w: check #%d already written on %s", ErrInvalidTransaction, number, c.spec.ID)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: check amount must be positive", ErrInvalidTransaction)
	}
	t := model.Transaction{
		ID:          id.NewTransactionID(),
		AccountID:   c.spec.ID,
		Date:        model.Day(on),
		Amount:      amount.Neg(),
		Category:    model.CategoryOther,
		Description: id.FormatCheckReference(number) + " - " + payee,
	}
	if err := c.AddTransaction(t); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// ChecksWritten returns used check numbers in ascending order.
func (c *Checking) ChecksWritten() []int {
	out := make([]int, 0, len(c.checks))
	for n := range c.checks {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// HasOverdraftProtection reports whether any overdraft is allowed.
func (c *Checking) HasOverdraftProtection() bool { return c.spec.OverdraftLimit.IsPositive() }

// OverdraftUsage is how far the balance currently sits below zero.
func (c *Checking) OverdraftUsage() decimal.Decimal {
	if c.balance.IsNegative() {
		return c.balance.Neg()
	}
	return decimal.Zero
}

func parseCheckNumber(desc string) (int, bool) {
	rest, ok := strings.CutPrefix(desc, "Check #")
	if !ok {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(rest, "%d", &n); err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
