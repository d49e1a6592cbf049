package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"
)

// PlayRepository implements the service.PlayRepository interface
type PlayRepository struct {
	q queryable
}

// NewPlayRepository creates a new play repository
func NewPlayRepository(db *database.DB) *PlayRepository {
	return &PlayRepository{q: db.Pool}
}

// newPlayRepositoryWithTx creates a new play repository with a transaction
func newPlayRepositoryWithTx(tx queryable) *PlayRepository {
	return &PlayRepository{q: tx}
}

// Create inserts a play record. Plays are immutable after insert.
func (r *PlayRepository) Create(ctx context.Context, play *models.Play) error {
	query := `
		INSERT INTO jogadas (user_id, raspadinha_id, resultado, premio_ganho, is_simulated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		play.UserID,
		play.CardID,
		play.Won,
		play.PrizeAmount,
		play.Simulated,
	).Scan(&play.ID, &play.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create play record for user %s: %w", play.UserID, err)
	}

	return nil
}

// GetRecentWins returns the user's most recent winning plays joined with the
// card display fields, newest first.
func (r *PlayRepository) GetRecentWins(ctx context.Context, userID string, limit int) ([]*models.PlayWithCard, error) {
	query := `
		SELECT j.id, j.user_id, j.raspadinha_id, j.resultado, j.premio_ganho,
		       j.is_simulated, j.created_at, c.nome, c.imagem_url
		FROM jogadas j
		JOIN raspadinhas c ON c.id = j.raspadinha_id
		WHERE j.user_id = $1 AND j.resultado
		ORDER BY j.created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent wins for user %s: %w", userID, err)
	}
	defer rows.Close()

	var wins []*models.PlayWithCard
	for rows.Next() {
		var win models.PlayWithCard
		err := rows.Scan(
			&win.ID,
			&win.UserID,
			&win.CardID,
			&win.Won,
			&win.PrizeAmount,
			&win.Simulated,
			&win.CreatedAt,
			&win.CardName,
			&win.CardImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent win: %w", err)
		}
		wins = append(wins, &win)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent wins: %w", err)
	}

	return wins, nil
}
