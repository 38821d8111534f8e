package importer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Rule assigns Category to bank descriptions containing Keyword.
type Rule struct {
	Keyword  string
	Category model.Category
}

// Categorizer picks a category for imported transactions. Longer keywords
// win over shorter ones so "AMAZON PRIME" beats "AMAZON".
type Categorizer struct {
	rules []Rule
}

// NewCategorizer builds a Categorizer from keyword -> category name pairs,
// as found in the config file's rules section.
func NewCategorizer(rules map[string]string) (*Categorizer, error) {
	c := &Categorizer{}
	for kw, name := range rules {
		cat, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", kw, err)
		}
		kw = strings.ToUpper(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		c.rules = append(c.rules, Rule{Keyword: kw, Category: cat})
	}
	slices.SortFunc(c.rules, func(a, b Rule) int {
		if n := cmp.Compare(len(b.Keyword), len(a.Keyword)); n != 0 {
			return n
		}
		return cmp.Compare(a.Keyword, b.Keyword)
	})
	return c, nil
}

// Rules returns the rules in matching order.
func (c *Categorizer) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Categorize returns the first matching rule's category. Unmatched credits
// are Income and unmatched debits are Other.
func (c *Categorizer) Categorize(description string, amount decimal.Decimal) model.Category {
	desc := strings.ToUpper(description)
	for _, r := range c.rules {
		if strings.Contains(desc, r.Keyword) {
			return r.Category
		}
	}
	if amount.IsPositive() {
		return model.CategoryIncome
	}
	return model.CategoryOther
}
