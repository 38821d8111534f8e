package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// CreditCard borrows against a credit limit. Its balance is the sum of
// postings like any account, but spending power comes from currentDebt,
// which starts at the opening debt and moves opposite to each posting.
type CreditCard struct {
	ledger
	debt decimal.Decimal
}

func newCreditCard(spec model.AccountSpec) *CreditCard {
	return &CreditCard{ledger: newLedger(spec), debt: spec.OpeningDebt}
}

// CreditLimit is the maximum debt.
func (c *CreditCard) CreditLimit() decimal.Decimal { return c.spec.CreditLimit }

// CurrentDebt is the amount owed. A negative value is a credit on the card.
func (c *CreditCard) CurrentDebt() decimal.Decimal { return c.debt }

// InterestRate is the annual rate charged on debt.
func (c *CreditCard) InterestRate() decimal.Decimal { return c.spec.InterestRate }

// RewardRate is the share of purchases returned as rewards.
func (c *CreditCard) RewardRate() decimal.Decimal { return c.spec.RewardRate }

func (c *CreditCard) AvailableFunds() decimal.Decimal {
	return c.spec.CreditLimit.Sub(c.debt)
}

func (c *CreditCard) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(c.AvailableFunds())
}

func (c *CreditCard) AddTransaction(t model.Transaction) error { return c.add(t, c) }

func (c *CreditCard) Replay(t model.Transaction) error { return c.replay(t, c) }

func (c *CreditCard) ApplyMonthlyFees(on time.Time) (decimal.Decimal, error) {
	if !c.debt.IsPositive() {
		return decimal.Zero, nil
	}
	interest := monthlyRate(c.debt, c.spec.InterestRate)
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}
	c.postFee(interest.Neg(), on, model.CategoryFees, "Interest charge", c)
	return interest, nil
}

func (c *CreditCard) checkWithdrawal(amount decimal.Decimal, _ time.Time) error {
	if available := c.AvailableFunds(); amount.GreaterThan(available) {
		return insufficient(amount, available)
	}
	return nil
}

func (c *CreditCard) applied(t model.Transaction) {
	c.debt = c.debt.Sub(t.Amount)
}

// RewardsEarned is RewardRate applied to all purchases, excluding fees and
// interest, rounded to cents.
func (c *CreditCard) RewardsEarned() decimal.Decimal {
	spent := decimal.Zero
	for _, t := range c.txns {
		if t.IsDebit() && t.Category != model.CategoryFees {
			spent = spent.Add(t.Magnitude())
		}
	}
	return spent.Mul(c.spec.RewardRate).Round(2)
}

// Utilization is CurrentDebt as a fraction of CreditLimit.
func (c *CreditCard) Utilization() decimal.Decimal {
	if !c.spec.CreditLimit.IsPositive() {
		return decimal.Zero
	}
	return c.debt.Div(c.spec.CreditLimit).Round(4)
}
