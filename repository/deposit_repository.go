package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the service.DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepositoryWithTx creates a new deposit repository with a transaction
func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create inserts a new pending deposit request.
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO credit_purchases (user_id, amount, status, method, external_ref, is_simulated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		deposit.UserID,
		deposit.Amount,
		deposit.Status,
		deposit.Method,
		deposit.ExternalRef,
		deposit.Simulated,
	).Scan(&deposit.ID, &deposit.CreatedAt, &deposit.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create deposit for user %s: %w", deposit.UserID, err)
	}

	return nil
}

// GetByID retrieves a deposit by id. Returns nil when not found.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, amount, status, method, external_ref, is_simulated, created_at, updated_at
		FROM credit_purchases
		WHERE id = $1
	`, id)
}

// GetPendingByExternalRef retrieves the pending deposit matching a gateway
// correlation id. Returns nil when there is none — which is exactly the case
// for a replayed or unknown callback, making this lookup the idempotency
// guard for webhook delivery.
func (r *DepositRepository) GetPendingByExternalRef(ctx context.Context, externalRef string) (*models.Deposit, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, amount, status, method, external_ref, is_simulated, created_at, updated_at
		FROM credit_purchases
		WHERE external_ref = $1 AND status = $2
	`, externalRef, models.DepositStatusPending)
}

// UpdateStatus transitions a deposit from one status to another. The
// transition only applies when the row is still in the expected source
// status; the returned bool reports whether a row actually changed, so
// concurrent duplicate deliveries observe a no-op instead of re-processing.
func (r *DepositRepository) UpdateStatus(ctx context.Context, id string, from, to models.DepositStatus) (bool, error) {
	query := `
		UPDATE credit_purchases
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition deposit %s from %s to %s: %w", id, from, to, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *DepositRepository) getOne(ctx context.Context, query string, args ...any) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&deposit.ID,
		&deposit.UserID,
		&deposit.Amount,
		&deposit.Status,
		&deposit.Method,
		&deposit.ExternalRef,
		&deposit.Simulated,
		&deposit.CreatedAt,
		&deposit.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}

	return &deposit, nil
}
