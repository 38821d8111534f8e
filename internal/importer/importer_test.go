package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

const (
	chaseBankHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"
	chaseCardHeader = "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n"
)

func isoDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseChaseFixture(t *testing.T) []model.BankTransaction {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "..", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_BankExport(t *testing.T) {
	txns := parseChaseFixture(t)
	require.Len(t, txns, 6)

	tests := []struct {
		i      int
		date   string
		desc   string
		amount string
		kind   string
		ref    string
	}{
		{0, "2025-01-03", "GITHUB *PRO SUBSCRIPTION", "-4.00", "ACH_DEBIT", "chase_20250103_GITHUBPROS"},
		{3, "2025-01-15", "ACME CONSULTING INVOICE 1042", "3500.00", "ACH_CREDIT", "chase_20250115_ACMECONSUL"},
		{4, "2025-01-18", "CHECK 1012", "-1450.00", "CHECK_PAID", "Check #1012"},
		{5, "2025-01-22", "NETFLIX.COM", "-15.99", "DEBIT_CARD", "chase_20250122_NETFLIXCOM"},
	}
	for _, tt := range tests {
		got := txns[tt.i]
		assert.Equal(t, isoDate(tt.date), got.Date, "row %d", tt.i)
		assert.Equal(t, tt.desc, got.Description, "row %d", tt.i)
		assert.Equal(t, tt.amount, got.Amount.StringFixed(2), "row %d", tt.i)
		assert.Equal(t, tt.kind, got.Type, "row %d", tt.i)
		assert.Equal(t, tt.ref, got.Reference, "row %d", tt.i)
	}

	credits := 0
	for _, txn := range txns {
		if txn.Amount.IsPositive() {
			credits++
		}
	}
	assert.Equal(t, 1, credits, "only the invoice is a deposit")
}

func TestChaseParser_CardExport(t *testing.T) {
	csv := chaseCardHeader +
		"02/01/2025,02/02/2025,SPOTIFY USA,Entertainment,Sale,-11.99,\n" +
		"02/10/2025,02/11/2025,Payment Thank You-Mobile,,Payment,250.00,\n"

	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, isoDate("2025-02-01"), txns[0].Date, "uses the transaction date, not the post date")
	assert.Equal(t, "-11.99", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "Sale", txns[0].Type)
	assert.Equal(t, "chase_20250201_SPOTIFYUSA", txns[0].Reference)
	assert.True(t, txns[1].Amount.IsPositive())
}

func TestChaseParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad date", chaseBankHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "parsing date"},
		{"bad amount", chaseBankHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n", "parsing amount"},
		{"short row", chaseBankHeader + "DEBIT,01/03/2025,desc\n", "expected 7 fields"},
		{"foreign header", "date,memo,amount\n2025-01-03,desc,-4.00\n", "not a chase export"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChaseParser_Empty(t *testing.T) {
	for _, in := range []string{"", chaseBankHeader} {
		txns, err := (&ChaseParser{}).Parse(strings.NewReader(in))
		require.NoError(t, err)
		assert.Nil(t, txns)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("chase"))

	r.Register(&ChaseParser{})
	for _, name := range []string{"chase", "Chase", "CHASE"} {
		p := r.Get(name)
		require.NotNil(t, p, name)
		assert.Equal(t, "chase", p.Format())
	}
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })

	d := DefaultRegistry()
	assert.NotNil(t, d.Get("chase"))
	assert.NotNil(t, d.Get("generic"))
	assert.Nil(t, d.Get("wells"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files, "missing import dir is not an error")

	processed := filepath.Join(dir, "import", "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))
	for name, parent := range map[string]string{
		"jan.csv":   filepath.Join(dir, "import"),
		"FEB.CSV":   filepath.Join(dir, "import"),
		"notes.txt": filepath.Join(dir, "import"),
		"old.csv":   processed,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(parent, name), []byte("data"), 0o644))
	}

	files, err = Scan(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.Equal(t, int64(4), f.Size)
	}
	assert.ElementsMatch(t, []string{"jan.csv", "FEB.CSV"}, names)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "jan.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "jan.csv"))

	_, err := os.Stat(filepath.Join(importDir, "jan.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(importDir, "processed", "jan.csv"))
	assert.NoError(t, err)

	assert.Error(t, MarkProcessed(dir, "jan.csv"), "already moved")
}
