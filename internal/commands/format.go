package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/journal"
	"github.com/cleared-dev/fintrack/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func day(t time.Time) string {
	return t.Format(journal.DateFormat)
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", flag, s)
	}
	return d, nil
}

// parseDay parses a YYYY-MM-DD flag; empty means today.
func parseDay(flag, s string) (time.Time, error) {
	if s == "" {
		return model.Day(time.Now()), nil
	}
	t, err := time.Parse(journal.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %q is not a YYYY-MM-DD date", flag, s)
	}
	return t, nil
}

// parseRange builds a date range from --from/--to; nil when both are empty.
func parseRange(from, to string) (*model.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	var r model.DateRange
	var err error
	if from != "" {
		if r.From, err = parseDay("from", from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if r.To, err = parseDay("to", to); err != nil {
			return nil, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return &r, nil
}
