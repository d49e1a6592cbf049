package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raspadinha/events"
	"raspadinha/gateway"
	"raspadinha/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Deposit bounds in centavos.
const (
	MinDepositAmount int64 = 100     // R$ 1,00
	MaxDepositAmount int64 = 1000000 // R$ 10.000,00
)

// chargeExpirySeconds is how long a PIX charge stays payable.
const chargeExpirySeconds = 3600

// amountTolerance is the accepted divergence between the webhook-reported
// value and the stored deposit amount, in centavos.
const amountTolerance int64 = 1

type depositService struct {
	uowFactory UnitOfWorkFactory
	ledger     LedgerService
	gateway    PixGateway
	eventBus   *events.Bus
}

// NewDepositService creates a new deposit service
func NewDepositService(uowFactory UnitOfWorkFactory, ledger LedgerService, gw PixGateway, eventBus *events.Bus) DepositService {
	return &depositService{
		uowFactory: uowFactory,
		ledger:     ledger,
		gateway:    gw,
		eventBus:   eventBus,
	}
}

// CreateDeposit creates a PIX charge at the gateway and persists the matching
// pending deposit keyed by a fresh correlation id.
func (s *depositService) CreateDeposit(ctx context.Context, userID string, amount int64) (*DepositCharge, error) {
	if amount < MinDepositAmount || amount > MaxDepositAmount {
		return nil, fmt.Errorf("deposit of %d centavos out of bounds: %w", amount, ErrInvalidAmount)
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	correlationID := newCorrelationID(userID)

	charge, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		CorrelationID: correlationID,
		Value:         amount,
		Comment:       fmt.Sprintf("Deposito de %s", models.FormatBRL(amount)),
		Customer:      gateway.ChargeCustomer{Name: "Cliente"},
		ExpiresIn:     chargeExpirySeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway charge: %w", err)
	}

	deposit := &models.Deposit{
		UserID:      userID,
		Amount:      amount,
		Status:      models.DepositStatusPending,
		Method:      "PIX",
		ExternalRef: correlationID,
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DepositRepository().Create(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to persist deposit: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userId":        userID,
		"depositId":     deposit.ID,
		"correlationId": correlationID,
		"amount":        amount,
	}).Info("Deposit created")

	return &DepositCharge{
		DepositID:      deposit.ID,
		CorrelationID:  correlationID,
		Amount:         amount,
		BRCode:         charge.BRCode,
		QRCodeImage:    charge.QRCodeImage,
		PixKey:         charge.PixKey,
		PaymentLinkURL: charge.PaymentLinkURL,
		GlobalID:       charge.GlobalID,
		ExpiresIn:      charge.ExpiresIn,
	}, nil
}

// GetDeposit returns a deposit for status polling.
func (s *depositService) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.DepositRepository().GetByID(ctx, id)
}

// HandlePaymentCompleted reconciles a completion callback: verify the status,
// match the pending deposit by correlation id, verify the amount, flip the
// status and credit the ledger. Deliveries that match nothing are benign
// no-ops — that is the idempotency guard against at-least-once delivery.
func (s *depositService) HandlePaymentCompleted(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error) {
	if payload.Charge == nil || payload.Charge.Status != gateway.ChargeStatusCompleted {
		return &ReconcileResult{Applied: false}, nil
	}

	correlationID := payload.Charge.CorrelationID

	deposit, err := s.getPendingDeposit(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		log.WithField("correlationId", correlationID).Info("No pending deposit for completion callback")
		return &ReconcileResult{Applied: false, CorrelationID: correlationID}, nil
	}

	// Never credit an unverified amount: a mismatch terminates the deposit.
	if diff := deposit.Amount - payload.Charge.Value; diff > amountTolerance || diff < -amountTolerance {
		log.WithFields(log.Fields{
			"depositId": deposit.ID,
			"expected":  deposit.Amount,
			"received":  payload.Charge.Value,
		}).Error("Deposit amount mismatch")

		if _, failErr := s.transition(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusFailed); failErr != nil {
			log.WithError(failErr).WithField("depositId", deposit.ID).Error("Failed to mark mismatched deposit failed")
		}
		return nil, fmt.Errorf("deposit %s: expected %d, received %d: %w",
			deposit.ID, deposit.Amount, payload.Charge.Value, ErrAmountMismatch)
	}

	// Conditional flip: a concurrent duplicate delivery loses the race here
	// and becomes a no-op.
	flipped, err := s.transition(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return &ReconcileResult{Applied: false, CorrelationID: correlationID, DepositID: deposit.ID}, nil
	}

	metadata := map[string]any{
		"woovi_correlation_id": correlationID,
		"payment_method":       "PIX",
	}
	if payload.Pix != nil && payload.Pix.EndToEndID != "" {
		metadata["woovi_end_to_end_id"] = payload.Pix.EndToEndID
	}

	newBalance, err := s.ledger.Settle(ctx, deposit.UserID, deposit.Amount,
		models.TransactionTypeDeposit, deposit.ID, metadata, deposit.Simulated)
	if err != nil {
		// The status already flipped; a deposit must never sit in completed
		// without its credit, so revert to a terminal failed state.
		if _, revertErr := s.transition(ctx, deposit.ID, models.DepositStatusCompleted, models.DepositStatusFailed); revertErr != nil {
			log.WithError(revertErr).WithField("depositId", deposit.ID).Error("Failed to revert deposit after credit failure")
		}
		return nil, fmt.Errorf("failed to credit deposit %s: %w", deposit.ID, err)
	}

	s.eventBus.Emit(ctx, events.DepositCompletedEvent{
		UserID:        deposit.UserID,
		DepositID:     deposit.ID,
		CorrelationID: correlationID,
		Amount:        deposit.Amount,
	})

	log.WithFields(log.Fields{
		"userId":        deposit.UserID,
		"depositId":     deposit.ID,
		"correlationId": correlationID,
		"amount":        deposit.Amount,
	}).Info("Deposit completed and credited")

	return &ReconcileResult{
		Applied:       true,
		CorrelationID: correlationID,
		DepositID:     deposit.ID,
		UserID:        deposit.UserID,
		NewBalance:    newBalance,
	}, nil
}

// HandleChargeExpired reconciles an expiry callback: the matching pending
// deposit flips to expired with an audit entry, atomically. Balance is never
// touched on this path.
func (s *depositService) HandleChargeExpired(ctx context.Context, payload *gateway.WebhookPayload) (*ReconcileResult, error) {
	if !payload.ExpiredEvent() {
		return &ReconcileResult{Applied: false}, nil
	}
	if payload.Charge == nil || payload.Charge.CorrelationID == "" {
		return &ReconcileResult{Applied: false}, nil
	}

	correlationID := payload.Charge.CorrelationID

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deposit, err := uow.DepositRepository().GetPendingByExternalRef(ctx, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up deposit: %w", err)
	}
	if deposit == nil {
		return nil, fmt.Errorf("correlation id %s: %w", correlationID, ErrDepositNotFound)
	}

	flipped, err := uow.DepositRepository().UpdateStatus(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusExpired)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return &ReconcileResult{Applied: false, CorrelationID: correlationID, DepositID: deposit.ID}, nil
	}

	entry := &models.AuditEntry{
		UserID:    deposit.UserID,
		Action:    "payment_expired",
		TableName: "credit_purchases",
		RecordID:  deposit.ID,
		OldValues: map[string]any{"status": models.DepositStatusPending},
		NewValues: map[string]any{
			"status":       models.DepositStatusExpired,
			"webhook_data": payload,
			"expired_at":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := uow.AuditRepository().Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record expiry audit entry: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.eventBus.Emit(ctx, events.DepositExpiredEvent{
		UserID:        deposit.UserID,
		DepositID:     deposit.ID,
		CorrelationID: correlationID,
		Amount:        deposit.Amount,
	})

	log.WithFields(log.Fields{
		"userId":        deposit.UserID,
		"depositId":     deposit.ID,
		"correlationId": correlationID,
	}).Info("Deposit expired")

	return &ReconcileResult{
		Applied:       true,
		CorrelationID: correlationID,
		DepositID:     deposit.ID,
		UserID:        deposit.UserID,
	}, nil
}

func (s *depositService) getProfile(ctx context.Context, userID string) (*models.Profile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ProfileRepository().GetByUserID(ctx, userID)
}

func (s *depositService) getPendingDeposit(ctx context.Context, correlationID string) (*models.Deposit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deposit, err := uow.DepositRepository().GetPendingByExternalRef(ctx, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up deposit: %w", err)
	}
	return deposit, nil
}

func (s *depositService) transition(ctx context.Context, depositID string, from, to models.DepositStatus) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	applied, err := uow.DepositRepository().UpdateStatus(ctx, depositID, from, to)
	if err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return applied, nil
}

// newCorrelationID builds the opaque reference shared with the gateway.
func newCorrelationID(userID string) string {
	entropy := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("dep_%s_%d_%s", userID, time.Now().UnixMilli(), entropy)
}
