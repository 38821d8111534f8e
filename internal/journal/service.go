package journal

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Month identifies one journal file.
type Month struct {
	Year  int
	Month int
}

func monthOf(t model.Transaction) Month {
	return Month{Year: t.Date.Year(), Month: int(t.Date.Month())}
}

func (m Month) compare(o Month) int {
	if c := cmp.Compare(m.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(m.Month, o.Month)
}

// Service stores transactions in one journal.csv per calendar month under
// repoRoot/YYYY/MM/.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service. accounts may be nil to skip
// account reference checks.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// Append validates txns together with the existing rows of their months
// and appends them. Nothing is written if any month fails validation.
func (s *Service) Append(txns ...model.Transaction) error {
	byMonth := make(map[Month][]model.Transaction)
	var order []Month
	for _, t := range txns {
		m := monthOf(t)
		if _, ok := byMonth[m]; !ok {
			order = append(order, m)
		}
		byMonth[m] = append(byMonth[m], t)
	}

	for _, m := range order {
		existing, err := s.ReadMonth(m.Year, m.Month)
		if err != nil {
			return err
		}
		all := append(existing, byMonth[m]...)
		if err := Join(ValidateMonth(all, s.accounts, m.Year, m.Month)); err != nil {
			return err
		}
	}

	for _, m := range order {
		if err := s.appendMonth(m, byMonth[m]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) appendMonth(m Month, txns []model.Transaction) error {
	path := s.monthPath(m.Year, m.Month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// WriteMonth replaces a month's journal with txns.
func (s *Service) WriteMonth(year, month int, txns []model.Transaction) error {
	if err := Join(ValidateMonth(txns, s.accounts, year, month)); err != nil {
		return err
	}
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	return nil
}

// RemoveMonth deletes a month's journal. A missing file is not an error.
func (s *Service) RemoveMonth(year, month int) error {
	err := os.Remove(s.monthPath(year, month))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing journal: %w", err)
	}
	return nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

// Months lists the months that have a journal file, oldest first.
func (s *Service) Months() ([]Month, error) {
	matches, err := filepath.Glob(filepath.Join(s.repoRoot, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "journal.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	var months []Month
	for _, path := range matches {
		monthDir := filepath.Dir(path)
		year, _ := strconv.Atoi(filepath.Base(filepath.Dir(monthDir)))
		month, _ := strconv.Atoi(filepath.Base(monthDir))
		if month < 1 || month > 12 {
			continue
		}
		months = append(months, Month{Year: year, Month: month})
	}
	slices.SortFunc(months, Month.compare)
	return months, nil
}

// ReadAll reads every journal, oldest month first, keeping file order
// within a month.
func (s *Service) ReadAll() ([]model.Transaction, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}
	var all []model.Transaction
	for _, m := range months {
		txns, err := s.ReadMonth(m.Year, m.Month)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
