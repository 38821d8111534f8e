package journal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Field       string
	TxnID       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Field, e.TxnID, e.Description)
}

// Join flattens errs into one error, or nil when there are none.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// AccountChecker tests whether an account ID is known.
type AccountChecker interface {
	Exists(id string) bool
}

// Record is a transaction as entered by a user or read from a foreign
// file: every field is raw text and the amount is unsigned with a separate
// debit/credit type.
type Record struct {
	ID          string
	AccountID   string
	Date        string
	Amount      string
	Type        string
	Category    string
	Description string
}

// Policy holds the configurable parts of record validation.
type Policy struct {
	// Categories is the allow-list; empty means every known category.
	Categories []model.Category
	// Now rejects future-dated records when set.
	Now func() time.Time
}

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// ValidateRecord checks every field of rec and converts it to a signed
// Transaction. All violations are reported, not just the first.
func ValidateRecord(rec Record, accounts AccountChecker, p Policy) (model.Transaction, []ValidationError) {
	var errs []ValidationError
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, TxnID: rec.ID, Description: fmt.Sprintf(format, args...)})
	}

	t := model.Transaction{
		ID:          strings.TrimSpace(rec.ID),
		AccountID:   strings.TrimSpace(rec.AccountID),
		Description: strings.TrimSpace(rec.Description),
	}

	if t.ID == "" {
		fail("transaction_id", "must not be empty")
	}
	switch {
	case t.AccountID == "":
		fail("account_id", "must not be empty")
	case accounts != nil && !accounts.Exists(t.AccountID):
		fail("account_id", "unknown account %s", t.AccountID)
	}

	date, err := time.Parse(DateFormat, strings.TrimSpace(rec.Date))
	switch {
	case err != nil:
		fail("date", "%q is not a YYYY-MM-DD date", rec.Date)
	case p.Now != nil && date.After(model.Day(p.Now())):
		fail("date", "%s is in the future", date.Format(DateFormat))
	default:
		t.Date = date
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec.Amount))
	switch {
	case err != nil:
		fail("amount", "%q is not a number", rec.Amount)
	case !amount.IsPositive():
		fail("amount", "%s must be positive", amount)
	case !hasCents(amount):
		fail("amount", "%s has more than 2 decimal places", amount)
	}

	switch strings.ToLower(strings.TrimSpace(rec.Type)) {
	case TypeDebit:
		t.Amount = amount.Neg()
	case TypeCredit:
		t.Amount = amount
	default:
		fail("type", "%q must be debit or credit", rec.Type)
	}

	cat, err := model.ParseCategory(rec.Category)
	switch {
	case err != nil:
		fail("category", "%q is not a known category", rec.Category)
	case len(p.Categories) > 0 && !slices.Contains(p.Categories, cat):
		fail("category", "%s is not allowed", cat)
	default:
		t.Category = cat
	}

	if len(errs) > 0 {
		return model.Transaction{}, errs
	}
	return t, nil
}

// ValidateMonth enforces the journal file rules on the transactions of one
// month: unique IDs, known accounts, dates within the month, non-zero
// amounts with at most 2 decimal places, and known categories.
func ValidateMonth(txns []model.Transaction, accounts AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(txns))

	for _, t := range txns {
		fail := func(field, format string, args ...any) {
			errs = append(errs, ValidationError{Field: field, TxnID: t.ID, Description: fmt.Sprintf(format, args...)})
		}

		if t.ID == "" {
			fail("transaction_id", "must not be empty")
		} else if seen[t.ID] {
			fail("transaction_id", "duplicate ID")
		}
		seen[t.ID] = true

		if accounts != nil && !accounts.Exists(t.AccountID) {
			fail("account_id", "unknown account %s", t.AccountID)
		}

		if t.Date.Year() != year || int(t.Date.Month()) != month {
			fail("date", "%s not in %04d-%02d", t.Date.Format(DateFormat), year, month)
		}

		if t.Amount.IsZero() {
			fail("amount", "must not be zero")
		} else if !hasCents(t.Amount) {
			fail("amount", "%s has more than 2 decimal places", t.Amount)
		}

		if !t.Category.Valid() {
			fail("category", "unknown category %q", t.Category)
		}
	}
	return errs
}

func hasCents(d decimal.Decimal) bool {
	hundred := decimal.NewFromInt(100)
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}
