package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new settlement ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// Settle applies a signed delta to the user's balance and appends the paired
// transaction row, both inside one database transaction. The balance update
// is a single conditional statement, so concurrent settlements for the same
// user serialize in the storage layer instead of losing updates.
func (s *ledgerService) Settle(ctx context.Context, userID string, delta int64, txType models.TransactionType,
	referenceID string, metadata map[string]any, simulated bool) (int64, error) {

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	previous, current, err := uow.ProfileRepository().ApplyBalanceDelta(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	var ref *string
	if referenceID != "" {
		ref = &referenceID
	}

	tx := &models.BalanceTransaction{
		UserID:          userID,
		Type:            txType,
		Amount:          delta,
		PreviousBalance: previous,
		NewBalance:      current,
		ReferenceID:     ref,
		Metadata:        metadata,
		Simulated:       simulated,
	}

	if err := RecordBalanceChange(ctx, uow, tx); err != nil {
		return 0, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return current, nil
}

// PlayAndSettle persists one resolved play as a single unit: the play record,
// the balance mutation, and the transaction row. If any write fails the whole
// unit rolls back — a play can never debit or credit without its records.
func (s *ledgerService) PlayAndSettle(ctx context.Context, profile *models.Profile, card *models.Card,
	debit int64, outcome PlayOutcome) (*models.Play, int64, error) {

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	play := &models.Play{
		UserID:      profile.UserID,
		CardID:      card.ID,
		Won:         outcome.Winner,
		PrizeAmount: outcome.Prize,
		Simulated:   outcome.Simulated,
	}

	if err := uow.PlayRepository().Create(ctx, play); err != nil {
		return nil, 0, fmt.Errorf("failed to record play: %w", err)
	}

	delta := -debit
	txType := models.TransactionTypeGamePurchase
	if outcome.Winner {
		delta += outcome.Prize
		txType = models.TransactionTypePrizeWin
	}

	previous, current, err := uow.ProfileRepository().ApplyBalanceDelta(ctx, profile.UserID, delta)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to apply play delta: %w", err)
	}

	result := "loss"
	if outcome.Winner {
		result = "win"
	}

	cardID := card.ID
	tx := &models.BalanceTransaction{
		UserID:          profile.UserID,
		Type:            txType,
		Amount:          delta,
		PreviousBalance: previous,
		NewBalance:      current,
		ReferenceID:     &cardID,
		Simulated:       outcome.Simulated,
		Metadata: map[string]any{
			"scratch_card_id":      card.ID,
			"scratch_card_name":    card.Name,
			"game_result":          result,
			"prize_amount":         outcome.Prize,
			"prize_display_value":  outcome.DisplayPrizeValue,
			"influencer_simulated": profile.Role == models.RoleInfluencer,
		},
	}

	if err := RecordBalanceChange(ctx, uow, tx); err != nil {
		return nil, 0, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.PlayResolvedEvent{
		UserID:      profile.UserID,
		CardID:      card.ID,
		Won:         outcome.Winner,
		PrizeAmount: outcome.Prize,
		Simulated:   outcome.Simulated,
	})

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return play, current, nil
}
