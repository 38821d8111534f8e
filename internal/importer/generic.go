package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// GenericParser reads the minimal "date,description,amount" layout with
// ISO dates and signed amounts. Extra columns are ignored.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := genericColumns(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		if len(rec) <= max(cols.date, cols.desc, cols.amount) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", i+2, max(cols.date, cols.desc, cols.amount)+1, len(rec))
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[cols.date]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[cols.date], err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[cols.amount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[cols.amount], err)
		}
		desc := strings.TrimSpace(rec[cols.desc])
		txns = append(txns, model.BankTransaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   makeRef("generic", date, desc),
		})
	}
	return txns, nil
}

type genericCols struct {
	date, desc, amount int
}

func genericColumns(header []string) (genericCols, error) {
	cols := genericCols{date: -1, desc: -1, amount: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			cols.date = i
		case "description", "memo", "payee":
			cols.desc = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.date < 0 || cols.desc < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("generic CSV header must name date, description and amount columns: %v", header)
	}
	return cols, nil
}
