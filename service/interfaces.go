package service

import (
	"context"

	"raspadinha/events"
	"raspadinha/gateway"
	"raspadinha/models"
)

// ProfileRepository defines the interface for user account data access
type ProfileRepository interface {
	// GetByUserID retrieves a profile by user id; nil when not found
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)

	// Create creates a new profile with a role and initial balance
	Create(ctx context.Context, userID string, role models.Role, initialBalance int64) (*models.Profile, error)

	// ApplyBalanceDelta atomically applies a signed delta, refusing to drive
	// the balance negative; returns the balances before and after
	ApplyBalanceDelta(ctx context.Context, userID string, delta int64) (previous, current int64, err error)
}

// CardRepository defines the interface for scratch card definitions
type CardRepository interface {
	// GetActiveByID retrieves an active card; nil when missing or inactive
	GetActiveByID(ctx context.Context, id string) (*models.Card, error)

	// Create inserts a new card definition (admin surface)
	Create(ctx context.Context, card *models.Card) error
}

// PlayRepository defines the interface for play records
type PlayRepository interface {
	// Create inserts an immutable play record
	Create(ctx context.Context, play *models.Play) error

	// GetRecentWins returns the latest winning plays with card display data
	GetRecentWins(ctx context.Context, userID string, limit int) ([]*models.PlayWithCard, error)
}

// BalanceTransactionRepository defines the interface for the balance audit trail
type BalanceTransactionRepository interface {
	// Record appends a balance transaction row
	Record(ctx context.Context, tx *models.BalanceTransaction) error

	// GetByUser returns a user's transaction history, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceTransaction, error)
}

// DepositRepository defines the interface for PIX deposit requests
type DepositRepository interface {
	// Create inserts a new pending deposit
	Create(ctx context.Context, deposit *models.Deposit) error

	// GetByID retrieves a deposit by id; nil when not found
	GetByID(ctx context.Context, id string) (*models.Deposit, error)

	// GetPendingByExternalRef retrieves the pending deposit for a gateway
	// correlation id; nil when there is none (idempotency guard)
	GetPendingByExternalRef(ctx context.Context, externalRef string) (*models.Deposit, error)

	// UpdateStatus conditionally transitions a deposit between statuses;
	// the bool reports whether the transition applied
	UpdateStatus(ctx context.Context, id string, from, to models.DepositStatus) (bool, error)
}

// AuditRepository defines the interface for audit log entries
type AuditRepository interface {
	// Record appends an audit entry
	Record(ctx context.Context, entry *models.AuditEntry) error
}

// LedgerService is the single entry point for balance mutation. Every change
// it applies is paired with a BalanceTransaction row inside one database
// transaction.
type LedgerService interface {
	// Settle applies a signed delta to a user's balance and records the
	// paired transaction row; returns the new balance
	Settle(ctx context.Context, userID string, delta int64, txType models.TransactionType,
		referenceID string, metadata map[string]any, simulated bool) (int64, error)

	// PlayAndSettle records a play and applies its balance effect as one
	// unit: play record, balance mutation, transaction row — all or nothing
	PlayAndSettle(ctx context.Context, profile *models.Profile, card *models.Card,
		debit int64, outcome PlayOutcome) (*models.Play, int64, error)
}

// PlayOutcome carries a resolved outcome into the ledger.
type PlayOutcome struct {
	Winner            bool
	Prize             int64
	Simulated         bool
	DisplayPrizeValue int64
}

// GameService orchestrates one purchase-and-play request.
type GameService interface {
	// ProcessGame validates, resolves, settles and returns the play result
	ProcessGame(ctx context.Context, req ProcessGameRequest) (*models.PlayResult, error)
}

// ProcessGameRequest is a validated play request. CardPrice is the
// client-declared price in centavos, checked against the pricing rule.
type ProcessGameRequest struct {
	CardID    string
	UserID    string
	CardPrice int64
}

// DepositService owns the deposit lifecycle: charge creation and the two
// gateway callback paths.
type DepositService interface {
	// CreateDeposit creates a PIX charge and a pending deposit record
	CreateDeposit(ctx context.Context, userID string, amount int64) (*DepositCharge, error)

	// GetDeposit returns a deposit for status polling; nil when not found
	GetDeposit(ctx context.Context, id string) (*models.Deposit, error)

	// HandlePaymentCompleted reconciles a completion callback
	HandlePaymentCompleted(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error)

	// HandleChargeExpired reconciles an expiry callback
	HandleChargeExpired(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error)
}

// DepositCharge is the data a client needs to pay a freshly created charge.
type DepositCharge struct {
	DepositID      string
	CorrelationID  string
	Amount         int64 // centavos
	BRCode         string
	QRCodeImage    string
	PixKey         string
	PaymentLinkURL string
	GlobalID       string
	ExpiresIn      int
}

// ReconcileResult reports what a webhook delivery did.
type ReconcileResult struct {
	// Applied is false for benign no-ops (duplicate delivery, unknown or
	// already-terminal correlation id, irrelevant event type)
	Applied       bool
	CorrelationID string
	DepositID     string
	UserID        string
	NewBalance    int64
}

// PixGateway is the outbound payment gateway surface used by the deposit
// service. Satisfied by *gateway.Client.
type PixGateway interface {
	CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ProfileRepository() ProfileRepository
	CardRepository() CardRepository
	PlayRepository() PlayRepository
	BalanceTransactionRepository() BalanceTransactionRepository
	DepositRepository() DepositRepository
	AuditRepository() AuditRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
