package model

import (
	"fmt"
	"strings"
	"time"
)

// Granularity selects the bucketing window for period summaries.
type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts "weekly"/"week" and "monthly"/"month".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Period is a half-open calendar window [Start, End).
type Period struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// PeriodOf returns the calendar-aligned window containing t. Weeks start on
// Monday (ISO 8601).
func PeriodOf(t time.Time, g Granularity) Period {
	d := Day(t)
	switch g {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		start := d.AddDate(0, 0, -offset)
		return Period{Granularity: Weekly, Start: start, End: start.AddDate(0, 0, 7)}
	default:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{Granularity: Monthly, Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Period { return PeriodOf(t, Monthly) }

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Label renders the period as "2025-01" or "2025-W03".
func (p Period) Label() string {
	if p.Granularity == Weekly {
		y, w := p.Start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	}
	return p.Start.Format("2006-01")
}

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	if !r.From.IsZero() && d.Before(Day(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(Day(r.To)) {
		return false
	}
	return true
}
