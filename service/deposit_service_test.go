package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"raspadinha/events"
	"raspadinha/gateway"
	"raspadinha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDepositService_CreateDeposit_Success(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockProfileRepo := new(MockProfileRepository)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	// Configure unit of work
	mockUoW.SetRepositories(mockProfileRepo, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	profile := &models.Profile{UserID: "user-1", Balance: 0, Role: models.RoleUser}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockProfileRepo.On("GetByUserID", ctx, "user-1").Return(profile, nil)

	mockGateway.On("CreateCharge", ctx, mock.MatchedBy(func(req gateway.ChargeRequest) bool {
		return req.Value == 5000 &&
			req.ExpiresIn == 3600 &&
			strings.HasPrefix(req.CorrelationID, "dep_user-1_")
	})).Return(&gateway.Charge{
		Status:      "ACTIVE",
		Value:       5000,
		BRCode:      "00020126pix-code",
		QRCodeImage: "https://api.example.com/qr/abc.png",
		ExpiresIn:   3600,
	}, nil)

	mockDepositRepo.On("Create", ctx, mock.MatchedBy(func(d *models.Deposit) bool {
		return d.UserID == "user-1" &&
			d.Amount == 5000 &&
			d.Status == models.DepositStatusPending &&
			d.Method == "PIX" &&
			strings.HasPrefix(d.ExternalRef, "dep_user-1_")
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Deposit).ID = "dep-1"
	})

	charge, err := service.CreateDeposit(ctx, "user-1", 5000)

	assert.NoError(t, err)
	assert.NotNil(t, charge)
	assert.Equal(t, "dep-1", charge.DepositID)
	assert.Equal(t, int64(5000), charge.Amount)
	assert.Equal(t, "00020126pix-code", charge.BRCode)
	assert.True(t, strings.HasPrefix(charge.CorrelationID, "dep_user-1_"))

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
	mockGateway.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_CreateDeposit_AmountOutOfBounds(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	// Below R$ 1,00
	charge, err := service.CreateDeposit(ctx, "user-1", 99)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Nil(t, charge)

	// Above R$ 10.000,00
	charge, err = service.CreateDeposit(ctx, "user-1", 1000001)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Nil(t, charge)

	// No charge may reach the gateway for a rejected amount
	mockGateway.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}

func TestDepositService_HandlePaymentCompleted_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	deposit := &models.Deposit{
		ID:          "dep-1",
		UserID:      "user-1",
		Amount:      2500,
		Status:      models.DepositStatusPending,
		ExternalRef: "dep_user-1_1700000000000_abc123",
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, deposit.ExternalRef).Return(deposit, nil)
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusPending, models.DepositStatusCompleted).
		Return(true, nil)

	mockLedger.On("Settle", ctx, "user-1", int64(2500), models.TransactionTypeDeposit, "dep-1",
		mock.MatchedBy(func(meta map[string]any) bool {
			return meta["woovi_correlation_id"] == deposit.ExternalRef &&
				meta["woovi_end_to_end_id"] == "E123456789" &&
				meta["payment_method"] == "PIX"
		}), false).Return(int64(12500), nil)

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_COMPLETED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: deposit.ExternalRef,
			Status:        gateway.ChargeStatusCompleted,
			Value:         2500,
		},
		Pix: &gateway.WebhookPix{EndToEndID: "E123456789"},
	})

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "dep-1", result.DepositID)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, int64(12500), result.NewBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestDepositService_HandlePaymentCompleted_DuplicateDeliveryIsNoop(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// The first delivery already flipped the deposit; the pending-only
	// lookup now matches nothing
	mockDepositRepo.On("GetPendingByExternalRef", ctx, "dep_user-1_123_abc").Return(nil, nil)

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_COMPLETED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: "dep_user-1_123_abc",
			Status:        gateway.ChargeStatusCompleted,
			Value:         2500,
		},
	})

	assert.NoError(t, err)
	assert.False(t, result.Applied)

	// Exactly zero balance effect for a replay
	mockLedger.AssertNotCalled(t, "Settle",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockDepositRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_HandlePaymentCompleted_NonCompletedStatusIsNoop(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_CREATED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: "dep_user-1_123_abc",
			Status:        "ACTIVE",
			Value:         2500,
		},
	})

	assert.NoError(t, err)
	assert.False(t, result.Applied)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestDepositService_HandlePaymentCompleted_AmountMismatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	deposit := &models.Deposit{
		ID:          "dep-1",
		UserID:      "user-1",
		Amount:      2500,
		Status:      models.DepositStatusPending,
		ExternalRef: "dep_user-1_123_abc",
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, deposit.ExternalRef).Return(deposit, nil)

	// The mismatched deposit terminates as failed
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusPending, models.DepositStatusFailed).
		Return(true, nil)

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_COMPLETED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: deposit.ExternalRef,
			Status:        gateway.ChargeStatusCompleted,
			Value:         9999,
		},
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmountMismatch))
	assert.Nil(t, result)

	mockLedger.AssertNotCalled(t, "Settle",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_HandlePaymentCompleted_ToleratesOneCentavo(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	deposit := &models.Deposit{
		ID:          "dep-1",
		UserID:      "user-1",
		Amount:      2500,
		Status:      models.DepositStatusPending,
		ExternalRef: "dep_user-1_123_abc",
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, deposit.ExternalRef).Return(deposit, nil)
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusPending, models.DepositStatusCompleted).
		Return(true, nil)

	// Credits the stored amount, not the reported one
	mockLedger.On("Settle", ctx, "user-1", int64(2500), models.TransactionTypeDeposit, "dep-1",
		mock.Anything, false).Return(int64(2500), nil)

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_COMPLETED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: deposit.ExternalRef,
			Status:        gateway.ChargeStatusCompleted,
			Value:         2501,
		},
	})

	assert.NoError(t, err)
	assert.True(t, result.Applied)

	mockLedger.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_HandlePaymentCompleted_CreditFailureRevertsStatus(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	deposit := &models.Deposit{
		ID:          "dep-1",
		UserID:      "user-1",
		Amount:      2500,
		Status:      models.DepositStatusPending,
		ExternalRef: "dep_user-1_123_abc",
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, deposit.ExternalRef).Return(deposit, nil)
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusPending, models.DepositStatusCompleted).
		Return(true, nil)

	mockLedger.On("Settle", ctx, "user-1", int64(2500), models.TransactionTypeDeposit, "dep-1",
		mock.Anything, false).Return(int64(0), errors.New("database unavailable"))

	// A completed deposit without its credit must not survive
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusCompleted, models.DepositStatusFailed).
		Return(true, nil)

	result, err := service.HandlePaymentCompleted(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_COMPLETED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: deposit.ExternalRef,
			Status:        gateway.ChargeStatusCompleted,
			Value:         2500,
		},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to credit deposit")
	assert.Nil(t, result)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestDepositService_HandleChargeExpired_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockAuditRepo := new(MockAuditRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, mockAuditRepo)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	deposit := &models.Deposit{
		ID:          "dep-1",
		UserID:      "user-1",
		Amount:      2500,
		Status:      models.DepositStatusPending,
		ExternalRef: "dep_user-1_123_abc",
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, deposit.ExternalRef).Return(deposit, nil)
	mockDepositRepo.On("UpdateStatus", ctx, "dep-1", models.DepositStatusPending, models.DepositStatusExpired).
		Return(true, nil)

	mockAuditRepo.On("Record", ctx, mock.MatchedBy(func(e *models.AuditEntry) bool {
		return e.UserID == "user-1" &&
			e.Action == "payment_expired" &&
			e.TableName == "credit_purchases" &&
			e.RecordID == "dep-1" &&
			e.OldValues["status"] == models.DepositStatusPending &&
			e.NewValues["status"] == models.DepositStatusExpired
	})).Return(nil)

	result, err := service.HandleChargeExpired(ctx, &gateway.WebhookPayload{
		Event: gateway.EventChargeExpired,
		Charge: &gateway.WebhookCharge{
			CorrelationID: deposit.ExternalRef,
			Status:        gateway.ChargeStatusExpired,
		},
	})

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "dep-1", result.DepositID)

	// Expiry never touches the balance
	mockLedger.AssertNotCalled(t, "Settle",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
	mockAuditRepo.AssertExpectations(t)
}

func TestDepositService_HandleChargeExpired_UnknownCorrelationID(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockDepositRepo, nil)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("GetPendingByExternalRef", ctx, "dep_ghost_123_abc").Return(nil, nil)

	result, err := service.HandleChargeExpired(ctx, &gateway.WebhookPayload{
		Event: gateway.EventChargeExpiredLegacy,
		Charge: &gateway.WebhookCharge{
			CorrelationID: "dep_ghost_123_abc",
			Status:        gateway.ChargeStatusExpired,
		},
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepositNotFound))
	assert.Nil(t, result)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_HandleChargeExpired_IrrelevantEventIsNoop(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockLedger := new(MockLedgerService)
	mockGateway := new(MockPixGateway)

	service := NewDepositService(mockFactory, mockLedger, mockGateway, events.NewBus())

	result, err := service.HandleChargeExpired(ctx, &gateway.WebhookPayload{
		Event: "OPENPIX:CHARGE_CREATED",
		Charge: &gateway.WebhookCharge{
			CorrelationID: "dep_user-1_123_abc",
			Status:        "ACTIVE",
		},
	})

	assert.NoError(t, err)
	assert.False(t, result.Applied)

	mockFactory.AssertNotCalled(t, "Create")
}
