package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Header is the CSV header for accounts.csv.
const Header = "account_id,kind,name,owner,opening_balance,overdraft_limit,monthly_fee,minimum_balance,interest_rate,withdrawal_limit,credit_limit,opening_debt,reward_rate"

const (
	numFields     = 13
	colID         = 0
	colKind       = 1
	colName       = 2
	colOwner      = 3
	colOpening    = 4
	colOverdraft  = 5
	colFee        = 6
	colMinimum    = 7
	colRate       = 8
	colWithdrawal = 9
	colLimit      = 10
	colDebt       = 11
	colReward     = 12
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.AccountSpec, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var specs []model.AccountSpec
	for i, rec := range records[1:] {
		spec, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, specs []model.AccountSpec) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, spec := range specs {
		if err := cw.Write(MarshalAccount(spec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an AccountSpec to a CSV row. Zero amounts are
// left blank.
func MarshalAccount(spec model.AccountSpec) []string {
	row := make([]string, numFields)
	row[colID] = spec.ID
	row[colKind] = string(spec.Kind)
	row[colName] = spec.Name
	row[colOwner] = spec.Owner
	row[colOpening] = amount(spec.OpeningBalance)
	row[colOverdraft] = amount(spec.OverdraftLimit)
	row[colFee] = amount(spec.MonthlyFee)
	row[colMinimum] = amount(spec.MinimumBalance)
	row[colRate] = rate(spec.InterestRate)
	if spec.WithdrawalLimit != 0 {
		row[colWithdrawal] = strconv.Itoa(spec.WithdrawalLimit)
	}
	row[colLimit] = amount(spec.CreditLimit)
	row[colDebt] = amount(spec.OpeningDebt)
	row[colReward] = rate(spec.RewardRate)
	return row
}

func amount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func rate(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// UnmarshalAccount converts a CSV row to an AccountSpec.
func UnmarshalAccount(record []string) (model.AccountSpec, error) {
	if len(record) != numFields {
		return model.AccountSpec{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	kind, err := model.ParseAccountKind(record[colKind])
	if err != nil {
		return model.AccountSpec{}, err
	}

	spec := model.AccountSpec{
		ID:    record[colID],
		Kind:  kind,
		Name:  record[colName],
		Owner: record[colOwner],
	}

	decimals := []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{colOpening, "opening_balance", &spec.OpeningBalance},
		{colOverdraft, "overdraft_limit", &spec.OverdraftLimit},
		{colFee, "monthly_fee", &spec.MonthlyFee},
		{colMinimum, "minimum_balance", &spec.MinimumBalance},
		{colRate, "interest_rate", &spec.InterestRate},
		{colLimit, "credit_limit", &spec.CreditLimit},
		{colDebt, "opening_debt", &spec.OpeningDebt},
		{colReward, "reward_rate", &spec.RewardRate},
	}
	for _, d := range decimals {
		if record[d.col] == "" {
			continue
		}
		v, err := decimal.NewFromString(record[d.col])
		if err != nil {
			return model.AccountSpec{}, fmt.Errorf("parsing %s %q: %w", d.name, record[d.col], err)
		}
		*d.dst = v
	}

	if record[colWithdrawal] != "" {
		spec.WithdrawalLimit, err = strconv.Atoi(record[colWithdrawal])
		if err != nil {
			return model.AccountSpec{}, fmt.Errorf("parsing withdrawal_limit %q: %w", record[colWithdrawal], err)
		}
	}
	return spec, nil
}
