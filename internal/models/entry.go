package models

import "time"

// EntryKind tags a ledger entry as a deposit or a withdrawal.
type EntryKind string

const (
	KindDeposit    EntryKind = "deposit"
	KindWithdrawal EntryKind = "withdrawal"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Entry is a single immutable ledger row. Withdrawals carry a negative amount.
type Entry struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Month     string    `json:"month"`
	Year      string    `json:"year"`
	Kind      EntryKind `json:"kind"`
	UserID    string    `json:"-"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntryInput is the caller-supplied data for a new entry. Amount is kept as
// text until the service parses it.
type EntryInput struct {
	UserName string
	Amount   string
	Month    string
	Year     string
}

// EntryFilter narrows a ledger listing. Empty fields do not filter.
type EntryFilter struct {
	UserName string
	Month    string
	Year     string
}
