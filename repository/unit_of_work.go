package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/events"
	"raspadinha/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus

	profileRepo service.ProfileRepository
	cardRepo    service.CardRepository
	playRepo    service.PlayRepository
	txRepo      service.BalanceTransactionRepository
	depositRepo service.DepositRepository
	auditRepo   service.AuditRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.profileRepo = newProfileRepositoryWithTx(tx)
	u.cardRepo = newCardRepositoryWithTx(tx)
	u.playRepo = newPlayRepositoryWithTx(tx)
	u.txRepo = newBalanceTransactionRepositoryWithTx(tx)
	u.depositRepo = newDepositRepositoryWithTx(tx)
	u.auditRepo = newAuditRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes staged events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction. No-op if already committed.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func (u *unitOfWork) ProfileRepository() service.ProfileRepository {
	if u.profileRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.profileRepo
}

func (u *unitOfWork) CardRepository() service.CardRepository {
	if u.cardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.cardRepo
}

func (u *unitOfWork) PlayRepository() service.PlayRepository {
	if u.playRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playRepo
}

func (u *unitOfWork) BalanceTransactionRepository() service.BalanceTransactionRepository {
	if u.txRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.txRepo
}

func (u *unitOfWork) DepositRepository() service.DepositRepository {
	if u.depositRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depositRepo
}

func (u *unitOfWork) AuditRepository() service.AuditRepository {
	if u.auditRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.auditRepo
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
