package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/fintrack/internal/model"
)

// RelPath is the location of the account definitions under a repo root.
const RelPath = "accounts/accounts.csv"

// Service provides in-memory lookup over account definitions.
type Service struct {
	specs []model.AccountSpec
	byID  map[string]model.AccountSpec
}

// NewService creates a Service from a slice of account definitions.
func NewService(specs []model.AccountSpec) *Service {
	byID := make(map[string]model.AccountSpec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}
	return &Service{specs: specs, byID: byID}
}

// Load reads accounts/accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, filepath.FromSlash(RelPath))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	specs, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(specs), nil
}

// All returns all account definitions in file order.
func (s *Service) All() []model.AccountSpec {
	return s.specs
}

// Get returns an account definition by ID.
func (s *Service) Get(id string) (model.AccountSpec, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByKind returns all accounts of the given kind.
func (s *Service) ByKind(kind model.AccountKind) []model.AccountSpec {
	var result []model.AccountSpec
	for _, a := range s.specs {
		if a.Kind == kind {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the definitions to accounts/accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, filepath.FromSlash(RelPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.specs); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
