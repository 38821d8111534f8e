package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const accountPrefix = "ACC"

// FormatAccountID returns an account ID like "ACC001".
func FormatAccountID(seq int) string {
	return fmt.Sprintf("%s%03d", accountPrefix, seq)
}

// ParseAccountID parses "ACC001" into its sequence number.
func ParseAccountID(id string) (int, error) {
	if !strings.HasPrefix(id, accountPrefix) || len(id) < len(accountPrefix)+3 {
		return 0, fmt.Errorf("invalid account ID format: %q", id)
	}
	seq, err := strconv.Atoi(id[len(accountPrefix):])
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid sequence in account ID %q", id)
	}
	return seq, nil
}

// NextAccountID returns the first ACC### identifier above every generated
// identifier in existing. IDs not in ACC### form are ignored.
func NextAccountID(existing []string) string {
	maxSeq := 0
	for _, e := range existing {
		seq, err := ParseAccountID(e)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatAccountID(maxSeq + 1)
}

// NewTransactionID returns a fresh random transaction ID.
func NewTransactionID() string {
	return "TXN-" + uuid.NewString()
}

// FormatCheckReference returns the description prefix used for written checks.
func FormatCheckReference(number int) string {
	return fmt.Sprintf("Check #%d", number)
}
