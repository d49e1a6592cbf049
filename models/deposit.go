package models

import "time"

// DepositStatus is the lifecycle state of a deposit request. Transitions are
// one-directional: pending -> completed, pending -> expired, or
// pending -> failed. A terminal state is never re-entered; webhook replays
// hit the pending-only lookup and become no-ops.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusCompleted DepositStatus = "completed"
	DepositStatusExpired   DepositStatus = "expired"
	DepositStatusFailed    DepositStatus = "failed"
)

// Terminal reports whether the status is final.
func (s DepositStatus) Terminal() bool {
	return s == DepositStatusCompleted || s == DepositStatusExpired || s == DepositStatusFailed
}

// Deposit represents a PIX credit purchase (credit_purchases table).
// ExternalRef is the correlation id shared with the payment gateway; callbacks
// are matched against it.
type Deposit struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	Amount      int64         `db:"amount"` // centavos
	Status      DepositStatus `db:"status"`
	Method      string        `db:"method"`
	ExternalRef string        `db:"external_ref"`
	Simulated   bool          `db:"is_simulated"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}
