package tracker

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/category"
	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

// PeriodTotal is the net amount of one category within one period.
type PeriodTotal struct {
	Period   model.Period
	Category model.Category
	Total    decimal.Decimal
	Count    int
}

type bucketKey struct {
	start int64
	cat   model.Category
}

// PeriodSummary buckets the account's transactions into calendar weeks or
// months and sums them per category. Output is ordered by period start,
// then category reporting order.
func (t *Tracker) PeriodSummary(accountID string, g model.Granularity) ([]PeriodTotal, error) {
	a, err := t.Account(accountID)
	if err != nil {
		return nil, err
	}

	buckets := make(map[bucketKey]*PeriodTotal)
	for tx := range a.Transactions(ledger.Filter{}) {
		p := model.PeriodOf(tx.Date, g)
		key := bucketKey{start: p.Start.Unix(), cat: tx.Category}
		b, ok := buckets[key]
		if !ok {
			b = &PeriodTotal{Period: p, Category: tx.Category, Total: decimal.Zero}
			buckets[key] = b
		}
		b.Total = b.Total.Add(tx.Amount)
		b.Count++
	}

	out := make([]PeriodTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(x, y PeriodTotal) int {
		if c := x.Period.Start.Compare(y.Period.Start); c != 0 {
			return c
		}
		return category.Compare(x.Category, y.Category)
	})
	return out, nil
}

// MonthlySpend is the debit total of one calendar month.
type MonthlySpend struct {
	Month model.Period
	Total decimal.Decimal // positive magnitude
}

// MonthlySpending returns per-month debit totals in range (nil = all time),
// in chronological order.
func (t *Tracker) MonthlySpending(accountID string, r *model.DateRange) ([]MonthlySpend, error) {
	a, err := t.Account(accountID)
	if err != nil {
		return nil, err
	}
	f := ledger.Filter{}
	if r != nil {
		f.Range = *r
	}

	byMonth := make(map[int64]*MonthlySpend)
	for tx := range a.Transactions(f) {
		if !tx.IsDebit() {
			continue
		}
		m := model.MonthOf(tx.Date)
		s, ok := byMonth[m.Start.Unix()]
		if !ok {
			s = &MonthlySpend{Month: m, Total: decimal.Zero}
			byMonth[m.Start.Unix()] = s
		}
		s.Total = s.Total.Add(tx.Magnitude())
	}

	out := make([]MonthlySpend, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(x, y MonthlySpend) int { return x.Month.Start.Compare(y.Month.Start) })
	return out, nil
}

// AverageMonthlySpend averages the per-month debit totals over the months
// in range that had any debits, rounded to cents. It returns zero when no
// debits match.
func (t *Tracker) AverageMonthlySpend(accountID string, r *model.DateRange) (decimal.Decimal, error) {
	months, err := t.MonthlySpending(accountID, r)
	if err != nil {
		return decimal.Zero, err
	}
	if len(months) == 0 {
		return decimal.Zero, nil
	}
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Total)
	}
	return total.Div(decimal.NewFromInt(int64(len(months)))).Round(2), nil
}
