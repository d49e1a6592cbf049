package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"
)

// BalanceTransactionRepository implements the service.BalanceTransactionRepository interface
type BalanceTransactionRepository struct {
	q queryable
}

// NewBalanceTransactionRepository creates a new balance transaction repository
func NewBalanceTransactionRepository(db *database.DB) *BalanceTransactionRepository {
	return &BalanceTransactionRepository{q: db.Pool}
}

// newBalanceTransactionRepositoryWithTx creates a new balance transaction repository with a transaction
func newBalanceTransactionRepositoryWithTx(tx queryable) *BalanceTransactionRepository {
	return &BalanceTransactionRepository{q: tx}
}

// Record appends a balance transaction row. The table's check constraint
// rejects any row where new_balance - previous_balance != amount, so an
// inconsistent pair can never be persisted.
func (r *BalanceTransactionRepository) Record(ctx context.Context, tx *models.BalanceTransaction) error {
	metadataJSON, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO balance_transactions
		(user_id, transaction_type, amount, previous_balance, new_balance, reference_id, metadata, is_simulated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.PreviousBalance,
		tx.NewBalance,
		tx.ReferenceID,
		metadataJSON,
		tx.Simulated,
	).Scan(&tx.ID, &tx.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record balance transaction for user %s: %w", tx.UserID, err)
	}

	return nil
}

// GetByUser returns the transaction history for a user, newest first.
func (r *BalanceTransactionRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceTransaction, error) {
	query := `
		SELECT id, user_id, transaction_type, amount, previous_balance, new_balance,
		       reference_id, metadata, is_simulated, created_at
		FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var transactions []*models.BalanceTransaction
	for rows.Next() {
		var tx models.BalanceTransaction
		var metadataJSON []byte

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Type,
			&tx.Amount,
			&tx.PreviousBalance,
			&tx.NewBalance,
			&tx.ReferenceID,
			&metadataJSON,
			&tx.Simulated,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance transaction: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance transactions: %w", err)
	}

	return transactions, nil
}
