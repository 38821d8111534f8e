// Package category maintains the category -> transaction relation table.
// The index only holds references; transactions stay owned by their
// accounts, and dropping a category or a reference never touches them.
package category

import (
	"slices"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Ref points at a transaction inside an account.
type Ref struct {
	AccountID     string
	TransactionID string
}

// Index maps each category to its references in insertion order.
type Index struct {
	refs map[model.Category][]Ref
	seen map[Ref]model.Category
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		refs: make(map[model.Category][]Ref),
		seen: make(map[Ref]model.Category),
	}
}

// Add records t under its category. Adding the same transaction twice is a
// no-op.
func (ix *Index) Add(t model.Transaction) {
	ref := Ref{AccountID: t.AccountID, TransactionID: t.ID}
	if _, ok := ix.seen[ref]; ok {
		return
	}
	ix.seen[ref] = t.Category
	ix.refs[t.Category] = append(ix.refs[t.Category], ref)
}

// Refs returns a copy of the references held for c.
func (ix *Index) Refs(c model.Category) []Ref {
	return slices.Clone(ix.refs[c])
}

// Len is the number of references held for c.
func (ix *Index) Len(c model.Category) int {
	return len(ix.refs[c])
}

// Categories returns the categories that currently hold references, in
// reporting order with unknown names last and sorted.
func (ix *Index) Categories() []model.Category {
	out := make([]model.Category, 0, len(ix.refs))
	for c, refs := range ix.refs {
		if len(refs) > 0 {
			out = append(out, c)
		}
	}
	SortCategories(out)
	return out
}

// Remove drops the category and all of its references.
func (ix *Index) Remove(c model.Category) {
	for _, ref := range ix.refs[c] {
		delete(ix.seen, ref)
	}
	delete(ix.refs, c)
}

// RemoveAccount drops every reference into accountID.
func (ix *Index) RemoveAccount(accountID string) {
	for c, refs := range ix.refs {
		kept := refs[:0]
		for _, ref := range refs {
			if ref.AccountID == accountID {
				delete(ix.seen, ref)
				continue
			}
			kept = append(kept, ref)
		}
		if len(kept) == 0 {
			delete(ix.refs, c)
		} else {
			ix.refs[c] = kept
		}
	}
}

// SortCategories orders cats by reporting rank; unknown categories go last
// in lexical order.
func SortCategories(cats []model.Category) {
	slices.SortFunc(cats, Compare)
}

// Compare orders two categories by reporting rank.
func Compare(a, b model.Category) int {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra >= 0 && rb >= 0:
		return ra - rb
	case ra >= 0:
		return -1
	case rb >= 0:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
