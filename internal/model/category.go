package model

import (
	"fmt"
	"strings"
)

// Category groups transactions for reporting.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategorySubscription   Category = "Subscription"
	CategoryUtilities      Category = "Utilities"
	CategoryIncome         Category = "Income"
	CategoryFees           Category = "Fees"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryHousing,
	CategoryTransportation,
	CategoryEntertainment,
	CategorySubscription,
	CategoryUtilities,
	CategoryIncome,
	CategoryFees,
	CategoryOther,
}

// Categories returns the built-in category set in reporting order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the built-in categories.
func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// Rank is the position of c in reporting order, or -1 if unknown.
func (c Category) Rank() int {
	for i, k := range categories {
		if k == c {
			return i
		}
	}
	return -1
}

// ParseCategory matches s case-insensitively against the built-in set.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
