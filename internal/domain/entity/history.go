package entity

import "time"

// HistoryRecord is one immutable fact in an expense's review ledger.
// Records are append-only; nothing edits or deletes them.
type HistoryRecord struct {
	ID        int64     `json:"id"`
	ExpenseID int64     `json:"expense_id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	ActorRole Role      `json:"actor_role"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
