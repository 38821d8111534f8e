package model

// Snapshot is everything a store needs to persist and rebuild a tracker.
// Transactions are in per-account insertion order.
type Snapshot struct {
	Owner        string
	Accounts     []AccountSpec
	Transactions []Transaction
}
