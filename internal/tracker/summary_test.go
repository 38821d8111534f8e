package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func summaryFixture(t *testing.T) (*Tracker, string) {
	t.Helper()
	tr := newTracker()
	a, err := tr.Open(checkingSpec("1000"))
	require.NoError(t, err)
	spend(t, tr, a.ID(), date(2025, 1, 6), "-10", model.CategoryFood, "Bagels")
	spend(t, tr, a.ID(), date(2025, 1, 12), "-5", model.CategoryFood, "Coffee")
	spend(t, tr, a.ID(), date(2025, 1, 13), "-20", model.CategoryFood, "Groceries")
	spend(t, tr, a.ID(), date(2025, 2, 1), "100", model.CategoryIncome, "Refund")
	return tr, a.ID()
}

func TestPeriodSummaryMonthly(t *testing.T) {
	tr, id := summaryFixture(t)

	got, err := tr.PeriodSummary(id, model.Monthly)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2025-01", got[0].Period.Label())
	assert.Equal(t, model.CategoryFood, got[0].Category)
	assertDec(t, "-35", got[0].Total)
	assert.Equal(t, 3, got[0].Count)

	assert.Equal(t, "2025-01", got[1].Period.Label())
	assert.Equal(t, model.CategoryIncome, got[1].Category)
	assertDec(t, "1000", got[1].Total)

	assert.Equal(t, "2025-02", got[2].Period.Label())
	assertDec(t, "100", got[2].Total)
}

func TestPeriodSummaryWeeklyAlignsToMonday(t *testing.T) {
	tr, id := summaryFixture(t)

	got, err := tr.PeriodSummary(id, model.Weekly)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// The opening balance on Wed 2025-01-01 belongs to the week of Mon 2024-12-30.
	assert.Equal(t, date(2024, 12, 30), got[0].Period.Start)
	assert.Equal(t, "2025-W01", got[0].Period.Label())

	assert.Equal(t, date(2025, 1, 6), got[1].Period.Start)
	assertDec(t, "-15", got[1].Total)
	assert.Equal(t, 2, got[1].Count)

	assert.Equal(t, date(2025, 1, 13), got[2].Period.Start)
	assertDec(t, "-20", got[2].Total)

	assert.Equal(t, date(2025, 1, 27), got[3].Period.Start)
	assert.Equal(t, model.CategoryIncome, got[3].Category)
}

func TestPeriodSummaryIsIdempotent(t *testing.T) {
	tr, id := summaryFixture(t)

	first, err := tr.PeriodSummary(id, model.Weekly)
	require.NoError(t, err)
	second, err := tr.PeriodSummary(id, model.Weekly)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPeriodSummaryEmptyAccount(t *testing.T) {
	tr := newTracker()
	a, err := tr.Open(cardSpec("0"))
	require.NoError(t, err)

	got, err := tr.PeriodSummary(a.ID(), model.Monthly)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAverageMonthlySpend(t *testing.T) {
	tr := newTracker()
	a, err := tr.Open(checkingSpec("1000"))
	require.NoError(t, err)
	spend(t, tr, a.ID(), date(2025, 1, 3), "-10", model.CategoryFood, "")
	spend(t, tr, a.ID(), date(2025, 1, 20), "-25", model.CategoryFood, "")
	spend(t, tr, a.ID(), date(2025, 2, 14), "300", model.CategoryIncome, "")
	spend(t, tr, a.ID(), date(2025, 3, 2), "-65", model.CategoryHousing, "")

	tests := []struct {
		name string
		r    *model.DateRange
		want string
	}{
		{"all time", nil, "50"},
		{"january only", &model.DateRange{From: date(2025, 1, 1), To: date(2025, 1, 31)}, "35"},
		{"open start", &model.DateRange{To: date(2025, 2, 28)}, "35"},
		{"february has no debits", &model.DateRange{From: date(2025, 2, 1), To: date(2025, 2, 28)}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.AverageMonthlySpend(a.ID(), tt.r)
			require.NoError(t, err)
			assertDec(t, tt.want, got)
		})
	}
}

func TestAverageMonthlySpendRoundsToCents(t *testing.T) {
	tr := newTracker()
	a, err := tr.Open(checkingSpec("1000"))
	require.NoError(t, err)
	spend(t, tr, a.ID(), date(2025, 1, 3), "-10", model.CategoryFood, "")
	spend(t, tr, a.ID(), date(2025, 2, 3), "-20", model.CategoryFood, "")
	spend(t, tr, a.ID(), date(2025, 3, 3), "-10", model.CategoryFood, "")

	got, err := tr.AverageMonthlySpend(a.ID(), nil)
	require.NoError(t, err)
	assert.Equal(t, "13.33", got.String())
}

func TestAverageMonthlySpendWithoutDebits(t *testing.T) {
	tr := newTracker()
	a, err := tr.Open(savingsSpec("1000"))
	require.NoError(t, err)

	got, err := tr.AverageMonthlySpend(a.ID(), nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMonthlySpending(t *testing.T) {
	tr := newTracker()
	a, err := tr.Open(checkingSpec("1000"))
	require.NoError(t, err)
	spend(t, tr, a.ID(), date(2025, 3, 2), "-65", model.CategoryHousing, "")
	spend(t, tr, a.ID(), date(2025, 1, 3), "-10", model.CategoryFood, "")

	got, err := tr.MonthlySpending(a.ID(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01", got[0].Month.Label())
	assertDec(t, "10", got[0].Total)
	assert.Equal(t, "2025-03", got[1].Month.Label())
	assertDec(t, "65", got[1].Total)
}
