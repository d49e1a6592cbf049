package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"
	"raspadinha/service"

	"github.com/jackc/pgx/v5"
)

// ProfileRepository implements the service.ProfileRepository interface
type ProfileRepository struct {
	q queryable
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{q: db.Pool}
}

// newProfileRepositoryWithTx creates a new profile repository with a transaction
func newProfileRepositoryWithTx(tx queryable) *ProfileRepository {
	return &ProfileRepository{q: tx}
}

// GetByUserID retrieves a profile by user id. Returns nil when not found.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, saldo, role, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Balance,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	return &profile, nil
}

// Create creates a new profile with the given role and initial balance.
func (r *ProfileRepository) Create(ctx context.Context, userID string, role models.Role, initialBalance int64) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, saldo, role)
		VALUES ($1, $2, $3)
		RETURNING user_id, saldo, role, created_at, updated_at
	`

	var profile models.Profile
	err := r.q.QueryRow(ctx, query, userID, initialBalance, role).Scan(
		&profile.UserID,
		&profile.Balance,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", userID, err)
	}

	return &profile, nil
}

// ApplyBalanceDelta applies a signed delta to a profile's balance as a single
// conditional update: the row never goes negative and concurrent mutations
// serialize on the row lock instead of racing a read-then-write. Returns the
// balances before and after the change.
func (r *ProfileRepository) ApplyBalanceDelta(ctx context.Context, userID string, delta int64) (previous, current int64, err error) {
	query := `
		UPDATE profiles
		SET saldo = saldo + $1, updated_at = NOW()
		WHERE user_id = $2 AND saldo + $1 >= 0
		RETURNING saldo
	`

	err = r.q.QueryRow(ctx, query, delta, userID).Scan(&current)
	if err == pgx.ErrNoRows {
		// Distinguish an unknown profile from an insufficient balance.
		profile, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return 0, 0, fmt.Errorf("failed to check profile after rejected delta: %w", getErr)
		}
		if profile == nil {
			return 0, 0, fmt.Errorf("profile %s: %w", userID, service.ErrProfileNotFound)
		}
		return 0, 0, fmt.Errorf("profile %s: have %d, delta %d: %w",
			userID, profile.Balance, delta, service.ErrInsufficientBalance)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to apply balance delta for profile %s: %w", userID, err)
	}

	return current - delta, current, nil
}
