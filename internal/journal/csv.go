package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "transaction_id,date,account_id,amount,category,description"

// DateFormat is the on-disk date layout.
const DateFormat = "2006-01-02"

const (
	numFields = 6
	colTxnID  = 0
	colDate   = 1
	colAcctID = 2
	colAmount = 3
	colCat    = 4
	colDesc   = 5
)

// ReadTransactions reads all transactions from a journal.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes txns to w, header first.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendTransactions writes txns to w without a header.
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colTxnID] = t.ID
	row[colDate] = t.Date.Format(DateFormat)
	row[colAcctID] = t.AccountID
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCat] = string(t.Category)
	row[colDesc] = t.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. It checks
// field syntax only; ledger rules apply when the transaction is posted.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(DateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	cat, err := model.ParseCategory(record[colCat])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:          record[colTxnID],
		AccountID:   record[colAcctID],
		Date:        date,
		Amount:      amount,
		Category:    cat,
		Description: record[colDesc],
	}, nil
}
