package tracker

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Cadence is the billing interval of a detected subscription.
type Cadence string

const (
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// cadenceWindows are the accepted day gaps between consecutive charges.
var cadenceWindows = []struct {
	cadence  Cadence
	min, max int
}{
	{CadenceWeekly, 6, 8},
	{CadenceMonthly, 26, 35},
	{CadenceYearly, 355, 375},
}

// minOccurrences is the smallest cluster reported as a subscription.
const minOccurrences = 2

// Subscription is a group of debits recurring at a consistent cadence.
type Subscription struct {
	Key          string
	Category     model.Category
	Cadence      Cadence
	Amount       decimal.Decimal // average charge, positive, rounded to cents
	First        time.Time
	Last         time.Time
	Transactions []model.Transaction
}

// ErrNegativeTolerance is returned for a tolerance below zero.
var ErrNegativeTolerance = errors.New("tolerance cannot be negative")

// IdentifySubscriptions scans the account's debits for recurring charges.
// Debits are grouped by normalised description (or by category when there
// is no description); within a group, amounts within tolerance of the first
// charge form a cluster. A cluster is a subscription when every gap between
// consecutive charges falls in the same cadence window. It does not mutate
// the account.
func (t *Tracker) IdentifySubscriptions(accountID string, tolerance decimal.Decimal) ([]Subscription, error) {
	if tolerance.IsNegative() {
		return nil, ErrNegativeTolerance
	}
	a, err := t.Account(accountID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]model.Transaction)
	for tx := range a.Transactions(ledger.Filter{}) {
		if !tx.IsDebit() {
			continue
		}
		key := subscriptionKey(tx)
		groups[key] = append(groups[key], tx)
	}

	var subs []Subscription
	for key, txns := range groups {
		slices.SortStableFunc(txns, func(x, y model.Transaction) int { return x.Date.Compare(y.Date) })
		for _, cluster := range clusterByAmount(txns, tolerance) {
			if len(cluster) < minOccurrences {
				continue
			}
			cadence, ok := detectCadence(cluster)
			if !ok {
				continue
			}
			subs = append(subs, newSubscription(key, cadence, cluster))
		}
	}

	slices.SortFunc(subs, func(x, y Subscription) int {
		if c := cmp.Compare(x.Key, y.Key); c != 0 {
			return c
		}
		return x.First.Compare(y.First)
	})
	return subs, nil
}

func subscriptionKey(tx model.Transaction) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(tx.Description) {
		if unicode.IsLetter(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	if b.Len() == 0 {
		return "category:" + strings.ToLower(string(tx.Category))
	}
	return b.String()
}

func clusterByAmount(txns []model.Transaction, tolerance decimal.Decimal) [][]model.Transaction {
	var clusters [][]model.Transaction
	for _, tx := range txns {
		placed := false
		for i, c := range clusters {
			if tx.Magnitude().Sub(c[0].Magnitude()).Abs().LessThanOrEqual(tolerance) {
				clusters[i] = append(c, tx)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []model.Transaction{tx})
		}
	}
	return clusters
}

func detectCadence(txns []model.Transaction) (Cadence, bool) {
	for _, w := range cadenceWindows {
		ok := true
		for i := 1; i < len(txns); i++ {
			gap := int(txns[i].Date.Sub(txns[i-1].Date).Hours() / 24)
			if gap < w.min || gap > w.max {
				ok = false
				break
			}
		}
		if ok {
			return w.cadence, true
		}
	}
	return "", false
}

func newSubscription(key string, cadence Cadence, txns []model.Transaction) Subscription {
	total := decimal.Zero
	for _, tx := range txns {
		total = total.Add(tx.Magnitude())
	}
	return Subscription{
		Key:          key,
		Category:     txns[len(txns)-1].Category,
		Cadence:      cadence,
		Amount:       total.Div(decimal.NewFromInt(int64(len(txns)))).Round(2),
		First:        txns[0].Date,
		Last:         txns[len(txns)-1].Date,
		Transactions: txns,
	}
}
