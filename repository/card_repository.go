package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// CardRepository implements the service.CardRepository interface
type CardRepository struct {
	q queryable
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{q: db.Pool}
}

// newCardRepositoryWithTx creates a new card repository with a transaction
func newCardRepositoryWithTx(tx queryable) *CardRepository {
	return &CardRepository{q: tx}
}

// GetActiveByID retrieves an active card by id. Returns nil when the card
// does not exist or is inactive.
func (r *CardRepository) GetActiveByID(ctx context.Context, id string) (*models.Card, error) {
	query := `
		SELECT id, nome, imagem_url, premio, cash_payout, chances, ativo, created_at, updated_at
		FROM raspadinhas
		WHERE id = $1 AND ativo
	`

	var card models.Card
	err := r.q.QueryRow(ctx, query, id).Scan(
		&card.ID,
		&card.Name,
		&card.ImageURL,
		&card.DisplayPrize,
		&card.CashPayout,
		&card.WinChance,
		&card.Active,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &card, nil
}

// Create inserts a new card definition. Admin surface only; the settlement
// path never writes cards.
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO raspadinhas (nome, imagem_url, premio, cash_payout, chances, ativo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		card.Name,
		card.ImageURL,
		card.DisplayPrize,
		card.CashPayout,
		card.WinChance,
		card.Active,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create card %q: %w", card.Name, err)
	}

	return nil
}
