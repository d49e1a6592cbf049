package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeGamePurchase    TransactionType = "game_purchase"
	TransactionTypePrizeWin        TransactionType = "prize_win"
	TransactionTypeDeposit         TransactionType = "deposit"
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

// BalanceTransaction represents one atomic balance delta (balance_transactions
// table). The append-only sequence of rows for a user, replayed from a known
// starting balance, must reproduce the current balance:
// NewBalance = PreviousBalance + Amount holds for every row.
type BalanceTransaction struct {
	ID              int64           `db:"id"`
	UserID          string          `db:"user_id"`
	Type            TransactionType `db:"transaction_type"`
	Amount          int64           `db:"amount"` // signed, centavos
	PreviousBalance int64           `db:"previous_balance"`
	NewBalance      int64           `db:"new_balance"`
	ReferenceID     *string         `db:"reference_id"`
	Metadata        map[string]any  `db:"metadata"`
	Simulated       bool            `db:"is_simulated"`
	CreatedAt       time.Time       `db:"created_at"`
}
