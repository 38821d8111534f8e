package accounts

import (
	"bytes"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSpecs() []model.AccountSpec {
	return []model.AccountSpec{
		{
			ID: "ACC001", Kind: model.AccountKindChecking, Name: "Main Checking", Owner: "Uzzam",
			OpeningBalance: dec("2500"), OverdraftLimit: dec("500"),
			MonthlyFee: dec("10"), MinimumBalance: dec("500"),
		},
		{
			ID: "ACC002", Kind: model.AccountKindSavings, Name: "Rainy Day", Owner: "Uzzam",
			MinimumBalance: dec("100"), InterestRate: dec("0.045"), WithdrawalLimit: 3,
		},
		{
			ID: "ACC003", Kind: model.AccountKindCreditCard, Name: "Travel, Card", Owner: "Uzzam",
			CreditLimit: dec("5000"), OpeningDebt: dec("2000"), InterestRate: dec("0.2299"), RewardRate: dec("0.015"),
		},
	}
}

func assertSpecEqual(t *testing.T, want, got model.AccountSpec) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, want.WithdrawalLimit, got.WithdrawalLimit)
	pairs := [][2]decimal.Decimal{
		{want.OpeningBalance, got.OpeningBalance},
		{want.OverdraftLimit, got.OverdraftLimit},
		{want.MonthlyFee, got.MonthlyFee},
		{want.MinimumBalance, got.MinimumBalance},
		{want.InterestRate, got.InterestRate},
		{want.CreditLimit, got.CreditLimit},
		{want.OpeningDebt, got.OpeningDebt},
		{want.RewardRate, got.RewardRate},
	}
	for i, p := range pairs {
		assert.True(t, p[0].Equal(p[1]), "%s: decimal %d: want %s, got %s", want.ID, i, p[0], p[1])
	}
}

func TestRoundTrip(t *testing.T) {
	specs := sampleSpecs()

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, specs))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(specs))
	for i := range specs {
		assertSpecEqual(t, specs[i], got[i])
	}
}

func TestMarshalLeavesZeroBlank(t *testing.T) {
	row := MarshalAccount(model.AccountSpec{ID: "ACC009", Kind: model.AccountKindSavings, Name: "Kids"})
	assert.Equal(t, "savings", row[colKind])
	assert.Empty(t, row[colOpening])
	assert.Empty(t, row[colRate])
	assert.Empty(t, row[colWithdrawal])
}

func TestUnmarshalErrors(t *testing.T) {
	base := MarshalAccount(sampleSpecs()[0])

	tests := []struct {
		name  string
		col   int
		value string
	}{
		{"kind", colKind, "brokerage"},
		{"overdraft", colOverdraft, "lots"},
		{"withdrawal limit", colWithdrawal, "six"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := append([]string(nil), base...)
			rec[tt.col] = tt.value
			_, err := UnmarshalAccount(rec)
			assert.Error(t, err)
		})
	}

	_, err := UnmarshalAccount(base[:4])
	assert.Error(t, err)
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("../../testdata/accounts.csv")
	require.NoError(t, err)
	defer f.Close()

	specs, err := ReadAccounts(f)
	require.NoError(t, err)
	require.Len(t, specs, 3)

	kinds := make(map[model.AccountKind]bool)
	for _, s := range specs {
		kinds[s.Kind] = true
	}
	assert.Len(t, kinds, 3)
	assert.True(t, specs[2].OpeningDebt.Equal(dec("2000")))
	assert.Equal(t, 6, specs[1].WithdrawalLimit)
}
