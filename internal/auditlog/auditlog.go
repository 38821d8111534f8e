// Package auditlog records every change made to a data directory as rows
// in logs/activity.csv.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names written by the CLI.
const (
	ActionInit         = "init"
	ActionOpenAccount  = "open_account"
	ActionCloseAccount = "close_account"
	ActionAddTxn       = "add_transaction"
	ActionWriteCheck   = "write_check"
	ActionApplyFees    = "apply_monthly_fees"
	ActionImport       = "import_bank_csv"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp     time.Time
	Action        string
	AccountID     string
	TransactionID string
	Details       string
	CommitHash    string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,account_id,transaction_id,details,commit_hash"

const (
	numFields     = 6
	logDir        = "logs"
	logFile       = "logs/activity.csv"
	colTimestamp  = 0
	colAction     = 1
	colAccountID  = 2
	colTxnID      = 3
	colDetails    = 4
	colCommitHash = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colAccountID] = e.AccountID
	row[colTxnID] = e.TransactionID
	row[colDetails] = e.Details
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:     ts,
		Action:        record[colAction],
		AccountID:     record[colAccountID],
		TransactionID: record[colTxnID],
		Details:       record[colDetails],
		CommitHash:    record[colCommitHash],
	}, nil
}

// Append writes entries to <repoRoot>/logs/activity.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries, or nil if the log does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// ForAccount returns the entries that touched accountID, oldest first.
func ForAccount(entries []Entry, accountID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
