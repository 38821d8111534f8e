// Package tracker owns a user's accounts and answers cross-account queries.
package tracker

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/category"
	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Tracker holds every account of one owner keyed by account ID. It is not
// safe for concurrent use.
type Tracker struct {
	owner    string
	accounts map[string]ledger.Account
	index    *category.Index
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for account lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithClock overrides the clock used to date opening balances.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates an empty tracker for owner.
func New(owner string, opts ...Option) *Tracker {
	t := &Tracker{
		owner:    owner,
		accounts: make(map[string]ledger.Account),
		index:    category.NewIndex(),
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Owner returns the tracker's user name.
func (t *Tracker) Owner() string { return t.owner }

// Open constructs the account described by spec. An empty spec.ID gets the
// next ACC### identifier; an empty owner defaults to the tracker's. A
// non-zero opening balance is posted as the first transaction.
func (t *Tracker) Open(spec model.AccountSpec) (ledger.Account, error) {
	a, err := t.open(spec)
	if err != nil {
		return nil, err
	}
	if spec.OpeningBalance.IsPositive() {
		opening := model.Transaction{
			ID:          id.NewTransactionID(),
			AccountID:   a.ID(),
			Date:        model.Day(t.now()),
			Amount:      spec.OpeningBalance,
			Category:    model.CategoryIncome,
			Description: "Opening balance",
		}
		if err := a.Replay(opening); err != nil {
			delete(t.accounts, a.ID())
			return nil, fmt.Errorf("posting opening balance: %w", err)
		}
		t.index.Add(opening)
	}
	t.log.Info().
		Str("account", a.ID()).
		Str("kind", string(a.Kind())).
		Str("opening_balance", spec.OpeningBalance.StringFixed(2)).
		Msg("account opened")
	return a, nil
}

func (t *Tracker) open(spec model.AccountSpec) (ledger.Account, error) {
	if spec.ID == "" {
		spec.ID = id.NextAccountID(t.ids())
	} else if _, exists := t.accounts[spec.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ledger.ErrDuplicateAccount, spec.ID)
	}
	if spec.Owner == "" {
		spec.Owner = t.owner
	}
	a, err := ledger.New(spec)
	if err != nil {
		return nil, err
	}
	t.accounts[spec.ID] = a
	return a, nil
}

// Close removes the account and everything it owns.
func (t *Tracker) Close(accountID string) error {
	a, err := t.Account(accountID)
	if err != nil {
		return err
	}
	delete(t.accounts, accountID)
	t.index.RemoveAccount(accountID)
	t.log.Info().
		Str("account", accountID).
		Int("transactions", a.Len()).
		Str("balance", a.Balance().StringFixed(2)).
		Msg("account closed")
	return nil
}

// Account returns the account with the given ID.
func (t *Tracker) Account(accountID string) (ledger.Account, error) {
	a, ok := t.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, accountID)
	}
	return a, nil
}

// Accounts returns all accounts ordered by ID.
func (t *Tracker) Accounts() []ledger.Account {
	out := make([]ledger.Account, 0, len(t.accounts))
	for _, a := range t.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b ledger.Account) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

func (t *Tracker) ids() []string {
	ids := make([]string, 0, len(t.accounts))
	for k := range t.accounts {
		ids = append(ids, k)
	}
	return ids
}

// AddTransaction routes tx to its account and indexes it by category. An
// empty tx.AccountID is filled from accountID and an empty tx.ID gets a
// fresh identifier. The stored transaction is returned.
func (t *Tracker) AddTransaction(accountID string, tx model.Transaction) (model.Transaction, error) {
	a, err := t.Account(accountID)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.AccountID == "" {
		tx.AccountID = accountID
	}
	if tx.ID == "" {
		tx.ID = id.NewTransactionID()
	}
	tx.Date = model.Day(tx.Date)
	if err := a.AddTransaction(tx); err != nil {
		return model.Transaction{}, err
	}
	t.index.Add(tx)
	t.log.Debug().
		Str("account", accountID).
		Str("txn", tx.ID).
		Str("amount", tx.Amount.StringFixed(2)).
		Str("category", string(tx.Category)).
		Msg("transaction added")
	return tx, nil
}

// WriteCheck writes a check on a checking account and indexes the debit.
func (t *Tracker) WriteCheck(accountID string, number int, amount decimal.Decimal, payee string, on time.Time) (model.Transaction, error) {
	a, err := t.Account(accountID)
	if err != nil {
		return model.Transaction{}, err
	}
	c, ok := a.(*ledger.Checking)
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %s is a %s account, checks need checking", ledger.ErrInvalidTransaction, accountID, a.Kind())
	}
	tx, err := c.WriteCheck(number, amount, payee, on)
	if err != nil {
		return model.Transaction{}, err
	}
	t.index.Add(tx)
	t.log.Info().Str("account", accountID).Int("check", number).Msg("check written")
	return tx, nil
}

// FeeResult is the outcome of ApplyMonthlyFees for one account.
type FeeResult struct {
	AccountID string
	Kind      model.AccountKind
	Amount    decimal.Decimal // positive = charged, negative = earned
}

// ApplyMonthlyFees posts each account's monthly fee or interest dated on.
func (t *Tracker) ApplyMonthlyFees(on time.Time) ([]FeeResult, error) {
	var results []FeeResult
	for _, a := range t.Accounts() {
		before := a.Len()
		amount, err := a.ApplyMonthlyFees(on)
		if err != nil {
			return results, fmt.Errorf("applying fees to %s: %w", a.ID(), err)
		}
		if a.Len() > before {
			if posted, ok := last(a); ok {
				t.index.Add(posted)
			}
			t.log.Info().
				Str("account", a.ID()).
				Str("amount", amount.StringFixed(2)).
				Msg("monthly fees applied")
		}
		results = append(results, FeeResult{AccountID: a.ID(), Kind: a.Kind(), Amount: amount})
	}
	return results, nil
}

func last(a ledger.Account) (model.Transaction, bool) {
	var out model.Transaction
	found := false
	for tx := range a.Transactions(ledger.Filter{}) {
		out, found = tx, true
	}
	return out, found
}

// TransactionsByCategory resolves the category index across all accounts,
// keeping index order.
func (t *Tracker) TransactionsByCategory(c model.Category) []model.Transaction {
	byAccount := make(map[string]map[string]model.Transaction)
	var out []model.Transaction
	for _, ref := range t.index.Refs(c) {
		txns, ok := byAccount[ref.AccountID]
		if !ok {
			a, err := t.Account(ref.AccountID)
			if err != nil {
				continue
			}
			txns = make(map[string]model.Transaction, a.Len())
			for tx := range a.Transactions(ledger.Filter{}) {
				txns[tx.ID] = tx
			}
			byAccount[ref.AccountID] = txns
		}
		if tx, ok := txns[ref.TransactionID]; ok {
			out = append(out, tx)
		}
	}
	return out
}

// Categories returns the categories that hold at least one transaction.
func (t *Tracker) Categories() []model.Category {
	return t.index.Categories()
}

// Measure selects what TotalBalance sums.
type Measure int

const (
	MeasureBalance Measure = iota
	MeasureAvailableFunds
)

// TotalBalance sums the chosen measure across the named accounts, or all
// accounts when none are named.
func (t *Tracker) TotalBalance(m Measure, accountIDs ...string) (decimal.Decimal, error) {
	accounts := t.Accounts()
	if len(accountIDs) > 0 {
		accounts = accounts[:0:0]
		for _, aid := range accountIDs {
			a, err := t.Account(aid)
			if err != nil {
				return decimal.Zero, err
			}
			accounts = append(accounts, a)
		}
	}
	total := decimal.Zero
	for _, a := range accounts {
		switch m {
		case MeasureAvailableFunds:
			total = total.Add(a.AvailableFunds())
		default:
			total = total.Add(a.Balance())
		}
	}
	return total, nil
}

// LargestTransactions returns up to n of the account's transactions ordered
// by magnitude, largest first; n <= 0 returns all. Ties keep insertion order.
func (t *Tracker) LargestTransactions(accountID string, n int) ([]model.Transaction, error) {
	a, err := t.Account(accountID)
	if err != nil {
		return nil, err
	}
	txns := slices.Collect(a.Transactions(ledger.Filter{}))
	slices.SortStableFunc(txns, func(x, y model.Transaction) int {
		return y.Magnitude().Cmp(x.Magnitude())
	})
	if n > 0 && n < len(txns) {
		txns = txns[:n]
	}
	return txns, nil
}

// Snapshot exports the tracker for a store.
func (t *Tracker) Snapshot() model.Snapshot {
	snap := model.Snapshot{Owner: t.owner}
	for _, a := range t.Accounts() {
		snap.Accounts = append(snap.Accounts, a.Spec())
		for tx := range a.Transactions(ledger.Filter{}) {
			snap.Transactions = append(snap.Transactions, tx)
		}
	}
	return snap
}

// FromSnapshot rebuilds a tracker from persisted state. History is replayed
// without withdrawal rules, and opening balances are not re-posted since
// they are part of the history.
func FromSnapshot(snap model.Snapshot, opts ...Option) (*Tracker, error) {
	t := New(snap.Owner, opts...)
	for _, spec := range snap.Accounts {
		if _, err := t.open(spec); err != nil {
			return nil, fmt.Errorf("restoring account %s: %w", spec.ID, err)
		}
	}
	for _, tx := range snap.Transactions {
		a, err := t.Account(tx.AccountID)
		if err != nil {
			return nil, fmt.Errorf("restoring transaction %s: %w", tx.ID, err)
		}
		if err := a.Replay(tx); err != nil {
			return nil, fmt.Errorf("restoring transaction %s: %w", tx.ID, err)
		}
		t.index.Add(tx)
	}
	t.log.Debug().
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("tracker restored")
	return t, nil
}
