package ledger

import "errors"

// Callers wrap these with context; test with errors.Is.
var (
	ErrInvalidTransaction      = errors.New("invalid transaction")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrWithdrawalLimitExceeded = errors.New("withdrawal limit exceeded")
	ErrAccountNotFound         = errors.New("account not found")
	ErrDuplicateAccount        = errors.New("duplicate account")
	ErrInvalidAccount          = errors.New("invalid account")
)
