package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// ChaseParser parses Chase exports. Bank accounts use
//
//	Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
//
// and credit cards use
//
//	Transaction Date,Post Date,Description,Category,Type,Amount,Memo
//
// Both sign purchases negative, so card rows need no flipping.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// chaseLayout holds column positions; check is -1 for card exports.
type chaseLayout struct {
	date, desc, amount, kind, check int
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns BankTransactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	layout, err := chaseColumns(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+2, len(records[0]), len(rec))
		}
		txn, err := layout.row(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func chaseColumns(header []string) (chaseLayout, error) {
	l := chaseLayout{date: -1, desc: -1, amount: -1, kind: -1, check: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "posting date", "transaction date":
			l.date = i
		case "description":
			l.desc = i
		case "amount":
			l.amount = i
		case "type":
			l.kind = i
		case "check or slip #":
			l.check = i
		}
	}
	if l.date < 0 || l.desc < 0 || l.amount < 0 {
		return l, fmt.Errorf("not a chase export: header %q", strings.Join(header, ","))
	}
	return l, nil
}

func (l chaseLayout) row(rec []string) (model.BankTransaction, error) {
	date, err := time.Parse(chaseDateFormat, strings.TrimSpace(rec[l.date]))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[l.date], err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[l.amount]))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", rec[l.amount], err)
	}

	txn := model.BankTransaction{
		Date:        date,
		Description: strings.TrimSpace(rec[l.desc]),
		Amount:      amount,
	}
	if l.kind >= 0 {
		txn.Type = strings.TrimSpace(rec[l.kind])
	}
	txn.Reference = makeRef("chase", date, txn.Description)
	if l.check >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(rec[l.check])); err == nil && n > 0 {
			txn.Reference = id.FormatCheckReference(n)
		}
	}
	return txn, nil
}

// makeRef creates a reference like chase_20250103_GITHUBPROS.
func makeRef(bank string, date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", bank, date.Format("20060102"), prefix)
}
