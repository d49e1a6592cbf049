package service

import (
	"context"
	"fmt"

	"raspadinha/game"
	"raspadinha/models"

	log "github.com/sirupsen/logrus"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	ledger     LedgerService
	resolver   *game.Resolver
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, ledger LedgerService) GameService {
	return &gameService{
		uowFactory: uowFactory,
		ledger:     ledger,
		resolver:   game.NewResolver(),
	}
}

// NewGameServiceWithResolver creates a game service with a custom outcome
// resolver. Intended for tests.
func NewGameServiceWithResolver(uowFactory UnitOfWorkFactory, ledger LedgerService, resolver *game.Resolver) GameService {
	return &gameService{
		uowFactory: uowFactory,
		ledger:     ledger,
		resolver:   resolver,
	}
}

// ProcessGame runs one purchase-and-play request: validate the card, user
// and declared price, resolve the outcome, synthesize the display grid, and
// settle. Validation failures mutate nothing; the outcome is fixed before
// any response data exists and the settlement is atomic.
func (s *gameService) ProcessGame(ctx context.Context, req ProcessGameRequest) (*models.PlayResult, error) {
	card, profile, err := s.loadCardAndProfile(ctx, req.CardID, req.UserID)
	if err != nil {
		return nil, err
	}

	resolvedPrice := game.ResolvePrice(card.Name, card.DisplayPrize)
	if !game.PriceMatches(resolvedPrice, req.CardPrice) {
		log.WithFields(log.Fields{
			"cardId":   card.ID,
			"expected": resolvedPrice,
			"declared": req.CardPrice,
		}).Warn("Rejected play with mismatched price")
		return nil, ErrInvalidPrice
	}

	// Influencer plays are promotional: the prize side is real to them but
	// the debit never applies.
	debit := resolvedPrice
	if profile.Role == models.RoleInfluencer {
		debit = 0
	}

	if debit > 0 && profile.Balance < debit {
		return nil, ErrInsufficientBalance
	}

	outcome := s.resolver.Resolve(card, profile.Role)

	winDisplay := game.WinDisplayValue(card)
	pool := game.DisplayPool(card, outcome.Winner, winDisplay)
	grid, winningCells := game.BuildGrid(outcome.Winner, winDisplay, pool)

	_, newBalance, err := s.ledger.PlayAndSettle(ctx, profile, card, debit, PlayOutcome{
		Winner:            outcome.Winner,
		Prize:             outcome.Prize,
		Simulated:         outcome.Simulated,
		DisplayPrizeValue: card.DisplayPrize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle play: %w", err)
	}

	result := &models.PlayResult{
		Won:          outcome.Winner,
		PrizeAmount:  outcome.Prize,
		NewBalance:   newBalance,
		Message:      playMessage(outcome.Winner, outcome.Prize, card.Name),
		Grid:         grid,
		WinningCells: winningCells,
	}

	// Recent wins decorate the response; a failure here must not fail an
	// already-settled play.
	if wins, err := s.recentWins(ctx, profile.UserID); err != nil {
		log.WithError(err).WithField("userId", profile.UserID).Warn("Failed to load recent wins")
	} else {
		result.RecentWins = wins
	}

	return result, nil
}

func (s *gameService) loadCardAndProfile(ctx context.Context, cardID, userID string) (*models.Card, *models.Profile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	card, err := uow.CardRepository().GetActiveByID(ctx, cardID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load card: %w", err)
	}
	if card == nil {
		return nil, nil, ErrCardNotFound
	}

	profile, err := uow.ProfileRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, nil, ErrProfileNotFound
	}

	return card, profile, nil
}

func (s *gameService) recentWins(ctx context.Context, userID string) ([]*models.PlayWithCard, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PlayRepository().GetRecentWins(ctx, userID, 5)
}

func playMessage(won bool, prize int64, cardName string) string {
	if !won {
		return "Nao foi desta vez! Tente novamente."
	}
	if prize > 0 {
		return fmt.Sprintf("Parabens! Voce ganhou %s!", models.FormatBRL(prize))
	}
	return fmt.Sprintf("Parabens! Voce desbloqueou o premio: %s", cardName)
}
