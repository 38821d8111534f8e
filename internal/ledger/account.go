package ledger

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Account is the contract shared by every account variant.
type Account interface {
	ID() string
	Name() string
	Owner() string
	Kind() model.AccountKind
	Balance() decimal.Decimal
	Len() int

	// Spec returns the definition the account was opened with.
	Spec() model.AccountSpec

	// AddTransaction appends t, enforcing the variant's withdrawal rule for
	// debits. It either fully succeeds or leaves the account untouched.
	AddTransaction(t model.Transaction) error

	// Replay appends previously persisted history without withdrawal rules.
	Replay(t model.Transaction) error

	// Transactions yields owned transactions matching f in insertion order.
	Transactions(f Filter) iter.Seq[model.Transaction]

	AvailableFunds() decimal.Decimal
	CanWithdraw(amount decimal.Decimal) bool

	// ApplyMonthlyFees posts the month's fee or interest dated on and
	// returns its signed effect: positive = charged, negative = earned.
	ApplyMonthlyFees(on time.Time) (decimal.Decimal, error)
}

var (
	_ Account = (*Checking)(nil)
	_ Account = (*Savings)(nil)
	_ Account = (*CreditCard)(nil)
)

// Filter narrows Transactions. The zero Filter matches everything.
type Filter struct {
	Range      model.DateRange
	Categories []model.Category
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Transaction) bool {
	if !f.Range.Contains(t.Date) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, t.Category) {
		return false
	}
	return true
}

// New constructs the variant selected by spec.Kind. The opening balance is
// not posted here; the tracker records it as a transaction.
func New(spec model.AccountSpec) (Account, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case model.AccountKindChecking:
		return newChecking(spec), nil
	case model.AccountKindSavings:
		return newSavings(spec), nil
	case model.AccountKindCreditCard:
		return newCreditCard(spec), nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAccount, spec.Kind)
}

func validateSpec(spec model.AccountSpec) error {
	if spec.ID == "" {
		return fmt.Errorf("%w: missing identifier", ErrInvalidAccount)
	}
	if spec.Name == "" {
		return fmt.Errorf("%w: %s: missing name", ErrInvalidAccount, spec.ID)
	}
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"opening balance", spec.OpeningBalance},
		{"overdraft limit", spec.OverdraftLimit},
		{"monthly fee", spec.MonthlyFee},
		{"minimum balance", spec.MinimumBalance},
		{"interest rate", spec.InterestRate},
		{"credit limit", spec.CreditLimit},
		{"opening debt", spec.OpeningDebt},
		{"reward rate", spec.RewardRate},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return fmt.Errorf("%w: %s: %s cannot be negative", ErrInvalidAccount, spec.ID, nn.field)
		}
	}
	if spec.WithdrawalLimit < 0 {
		return fmt.Errorf("%w: %s: withdrawal limit cannot be negative", ErrInvalidAccount, spec.ID)
	}
	return nil
}

// rules is the variant hook the shared ledger consults on every posting.
type rules interface {
	checkWithdrawal(amount decimal.Decimal, on time.Time) error
	applied(t model.Transaction)
}

// ledger is the storage and iteration shared by all variants.
type ledger struct {
	spec    model.AccountSpec
	txns    []model.Transaction
	seen    map[string]struct{}
	balance decimal.Decimal
}

func newLedger(spec model.AccountSpec) ledger {
	return ledger{spec: spec, seen: make(map[string]struct{})}
}

func (l *ledger) ID() string               { return l.spec.ID }
func (l *ledger) Name() string             { return l.spec.Name }
func (l *ledger) Owner() string            { return l.spec.Owner }
func (l *ledger) Kind() model.AccountKind  { return l.spec.Kind }
func (l *ledger) Balance() decimal.Decimal { return l.balance }
func (l *ledger) Len() int                 { return len(l.txns) }
func (l *ledger) Spec() model.AccountSpec  { return l.spec }

func (l *ledger) Transactions(f Filter) iter.Seq[model.Transaction] {
	return func(yield func(model.Transaction) bool) {
		for _, t := range l.txns {
			if !f.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func (l *ledger) validate(t model.Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing transaction ID", ErrInvalidTransaction)
	}
	if t.AccountID != l.spec.ID {
		return fmt.Errorf("%w: %s belongs to account %q, not %q", ErrInvalidTransaction, t.ID, t.AccountID, l.spec.ID)
	}
	if _, dup := l.seen[t.ID]; dup {
		return fmt.Errorf("%w: %s already recorded on %s", ErrInvalidTransaction, t.ID, l.spec.ID)
	}
	if t.Amount.IsZero() {
		return fmt.Errorf("%w: %s has zero amount", ErrInvalidTransaction, t.ID)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: %s has no date", ErrInvalidTransaction, t.ID)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidTransaction, t.ID, t.Category)
	}
	return nil
}

func (l *ledger) add(t model.Transaction, r rules) error {
	if err := l.validate(t); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		if err := r.checkWithdrawal(t.Amount.Neg(), model.Day(t.Date)); err != nil {
			return fmt.Errorf("%s on %s: %w", t.ID, l.spec.ID, err)
		}
	}
	l.post(t, r)
	return nil
}

func (l *ledger) replay(t model.Transaction, r rules) error {
	if err := l.validate(t); err != nil {
		return err
	}
	l.post(t, r)
	return nil
}

func (l *ledger) post(t model.Transaction, r rules) {
	t.Date = model.Day(t.Date)
	l.txns = append(l.txns, t)
	l.seen[t.ID] = struct{}{}
	l.balance = l.balance.Add(t.Amount)
	r.applied(t)
}

// postFee records a fee or interest transaction; fees are never subject to
// withdrawal rules.
func (l *ledger) postFee(amount decimal.Decimal, on time.Time, cat model.Category, desc string, r rules) model.Transaction {
	t := model.Transaction{
		ID:          id.NewTransactionID(),
		AccountID:   l.spec.ID,
		Date:        model.Day(on),
		Amount:      amount,
		Category:    cat,
		Description: desc,
	}
	l.post(t, r)
	return t
}

// monthlyRate converts an annual rate applied to base into one month's
// amount, rounded to cents.
func monthlyRate(base, annualRate decimal.Decimal) decimal.Decimal {
	return base.Mul(annualRate).Div(decimal.NewFromInt(12)).Round(2)
}

func insufficient(amount, available decimal.Decimal) error {
	return fmt.Errorf("%w: withdrawal of %s exceeds available funds %s",
		ErrInsufficientFunds, amount.StringFixed(2), available.StringFixed(2))
}
