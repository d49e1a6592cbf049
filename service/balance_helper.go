package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"
)

// RecordBalanceChange records a balance transaction row and stages the
// matching event on the unit of work's transactional bus. This is the single
// entry point for persisting balance changes; callers must have already
// applied the delta through ProfileRepository.ApplyBalanceDelta inside the
// same unit of work.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, tx *models.BalanceTransaction) error {
	if tx.NewBalance-tx.PreviousBalance != tx.Amount {
		return fmt.Errorf("inconsistent balance transaction for user %s: %d -> %d with amount %d",
			tx.UserID, tx.PreviousBalance, tx.NewBalance, tx.Amount)
	}

	if err := uow.BalanceTransactionRepository().Record(ctx, tx); err != nil {
		return fmt.Errorf("failed to record balance transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          tx.UserID,
		OldBalance:      tx.PreviousBalance,
		NewBalance:      tx.NewBalance,
		TransactionType: tx.Type,
		ChangeAmount:    tx.Amount,
		Simulated:       tx.Simulated,
	})

	return nil
}
