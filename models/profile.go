package models

import (
	"time"
)

// Role is the account role stored on a profile.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleInfluencer Role = "influencer"
)

// Privileged reports whether the role plays against the fixed promotional
// odds instead of the card's configured economics.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleInfluencer
}

// Profile represents a user account (profiles table). The balance (saldo) is
// mutated exclusively through the settlement ledger, paired with a
// BalanceTransaction row.
type Profile struct {
	UserID    string    `db:"user_id"`
	Balance   int64     `db:"saldo"` // centavos, never negative
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
