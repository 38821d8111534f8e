package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Plan is the outcome of matching a bank file against an account's history.
type Plan struct {
	New        []model.Transaction
	Duplicates []model.BankTransaction
}

// Prepare converts bank rows into transactions for accountID, dropping rows
// already present in existing. Rows match on date, amount and description;
// a row repeated n times in the file is only new beyond the n-th copy in
// existing, so legitimate same-day repeats survive.
func Prepare(accountID string, bank []model.BankTransaction, existing []model.Transaction, c *Categorizer) Plan {
	have := make(map[string]int, len(existing))
	for _, t := range existing {
		have[dedupKey(t.Date.Format("2006-01-02"), t.Amount.StringFixed(2), t.Description)]++
	}

	var plan Plan
	for _, b := range bank {
		key := dedupKey(b.Date.Format("2006-01-02"), b.Amount.StringFixed(2), b.Description)
		if have[key] > 0 {
			have[key]--
			plan.Duplicates = append(plan.Duplicates, b)
			continue
		}
		if b.Amount.IsZero() {
			continue
		}
		plan.New = append(plan.New, model.Transaction{
			ID:          id.NewTransactionID(),
			AccountID:   accountID,
			Date:        model.Day(b.Date),
			Amount:      b.Amount,
			Category:    c.Categorize(b.Description, b.Amount),
			Description: b.Description,
		})
	}
	return plan
}

func dedupKey(date, amount, desc string) string {
	return date + "|" + amount + "|" + strings.ToUpper(strings.Join(strings.Fields(desc), " "))
}
