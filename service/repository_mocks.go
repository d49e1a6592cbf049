package service

import (
	"context"

	"raspadinha/events"
	"raspadinha/gateway"
	"raspadinha/models"

	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, userID string, role models.Role, initialBalance int64) (*models.Profile, error) {
	args := m.Called(ctx, userID, role, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) ApplyBalanceDelta(ctx context.Context, userID string, delta int64) (int64, int64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetActiveByID(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// MockPlayRepository is a mock implementation of PlayRepository
type MockPlayRepository struct {
	mock.Mock
}

func (m *MockPlayRepository) Create(ctx context.Context, play *models.Play) error {
	args := m.Called(ctx, play)
	return args.Error(0)
}

func (m *MockPlayRepository) GetRecentWins(ctx context.Context, userID string, limit int) ([]*models.PlayWithCard, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayWithCard), args.Error(1)
}

// MockBalanceTransactionRepository is a mock implementation of BalanceTransactionRepository
type MockBalanceTransactionRepository struct {
	mock.Mock
}

func (m *MockBalanceTransactionRepository) Record(ctx context.Context, tx *models.BalanceTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBalanceTransactionRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceTransaction), args.Error(1)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) GetPendingByExternalRef(ctx context.Context, externalRef string) (*models.Deposit, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) UpdateStatus(ctx context.Context, id string, from, to models.DepositStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Settle(ctx context.Context, userID string, delta int64, txType models.TransactionType,
	referenceID string, metadata map[string]any, simulated bool) (int64, error) {
	args := m.Called(ctx, userID, delta, txType, referenceID, metadata, simulated)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) PlayAndSettle(ctx context.Context, profile *models.Profile, card *models.Card,
	debit int64, outcome PlayOutcome) (*models.Play, int64, error) {
	args := m.Called(ctx, profile, card, debit, outcome)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*models.Play), args.Get(1).(int64), args.Error(2)
}

// MockGameService is a mock implementation of GameService
type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) ProcessGame(ctx context.Context, req ProcessGameRequest) (*models.PlayResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayResult), args.Error(1)
}

// MockDepositService is a mock implementation of DepositService
type MockDepositService struct {
	mock.Mock
}

func (m *MockDepositService) CreateDeposit(ctx context.Context, userID string, amount int64) (*DepositCharge, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DepositCharge), args.Error(1)
}

func (m *MockDepositService) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *MockDepositService) HandlePaymentCompleted(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReconcileResult), args.Error(1)
}

func (m *MockDepositService) HandleChargeExpired(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReconcileResult), args.Error(1)
}

// MockPixGateway is a mock implementation of PixGateway
type MockPixGateway struct {
	mock.Mock
}

func (m *MockPixGateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Charge), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// hand back whatever SetRepositories stored rather than going through
// mock.Called, so tests only assert the transaction boundary calls.
type MockUnitOfWork struct {
	mock.Mock

	profileRepo   ProfileRepository
	cardRepo      CardRepository
	playRepo      PlayRepository
	balanceTxRepo BalanceTransactionRepository
	depositRepo   DepositRepository
	auditRepo     AuditRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories the mock should expose. Nil entries
// are fine for repositories the code under test never touches.
func (m *MockUnitOfWork) SetRepositories(
	profileRepo ProfileRepository,
	cardRepo CardRepository,
	playRepo PlayRepository,
	balanceTxRepo BalanceTransactionRepository,
	depositRepo DepositRepository,
	auditRepo AuditRepository,
) {
	m.profileRepo = profileRepo
	m.cardRepo = cardRepo
	m.playRepo = playRepo
	m.balanceTxRepo = balanceTxRepo
	m.depositRepo = depositRepo
	m.auditRepo = auditRepo
}

// SetEventBus wires the event publisher exposed by EventBus().
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ProfileRepository() ProfileRepository {
	return m.profileRepo
}

func (m *MockUnitOfWork) CardRepository() CardRepository {
	return m.cardRepo
}

func (m *MockUnitOfWork) PlayRepository() PlayRepository {
	return m.playRepo
}

func (m *MockUnitOfWork) BalanceTransactionRepository() BalanceTransactionRepository {
	return m.balanceTxRepo
}

func (m *MockUnitOfWork) DepositRepository() DepositRepository {
	return m.depositRepo
}

func (m *MockUnitOfWork) AuditRepository() AuditRepository {
	return m.auditRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
