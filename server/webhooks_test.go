package server

import (
	"net/http"
	"testing"

	"raspadinha/gateway"
	"raspadinha/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandlePaymentWebhook_Completed(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	deposits.On("HandlePaymentCompleted", mock.Anything, mock.MatchedBy(func(p *gateway.WebhookPayload) bool {
		return p.Charge != nil &&
			p.Charge.CorrelationID == "dep_user-1_123_abc" &&
			p.Charge.Status == gateway.ChargeStatusCompleted &&
			p.Charge.Value == 2500
	})).Return(&service.ReconcileResult{
		Applied:       true,
		CorrelationID: "dep_user-1_123_abc",
		DepositID:     "dep-1",
		UserID:        "user-1",
		NewBalance:    12500,
	}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi", gin.H{
		"event": "OPENPIX:CHARGE_COMPLETED",
		"charge": gin.H{
			"correlationID": "dep_user-1_123_abc",
			"status":        "COMPLETED",
			"value":         2500,
		},
		"pix": gin.H{"endToEndId": "E123456789"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	deposits.AssertExpectations(t)
}

func TestHandlePaymentWebhook_UnknownCorrelationAcknowledged(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	// No matching pending deposit: still a 200, the gateway must not retry
	deposits.On("HandlePaymentCompleted", mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Applied: false, CorrelationID: "dep_ghost"}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi", gin.H{
		"event": "OPENPIX:CHARGE_COMPLETED",
		"charge": gin.H{
			"correlationID": "dep_ghost",
			"status":        "COMPLETED",
			"value":         2500,
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	deposits.AssertExpectations(t)
}

func TestHandlePaymentWebhook_AmountMismatch(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	deposits.On("HandlePaymentCompleted", mock.Anything, mock.Anything).
		Return(nil, service.ErrAmountMismatch)

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi", gin.H{
		"event": "OPENPIX:CHARGE_COMPLETED",
		"charge": gin.H{
			"correlationID": "dep_user-1_123_abc",
			"status":        "COMPLETED",
			"value":         9999,
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	deposits.AssertExpectations(t)
}

func TestHandleExpiryWebhook_Expired(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	deposits.On("HandleChargeExpired", mock.Anything, mock.MatchedBy(func(p *gateway.WebhookPayload) bool {
		return p.ExpiredEvent() && p.Charge.CorrelationID == "dep_user-1_123_abc"
	})).Return(&service.ReconcileResult{
		Applied:       true,
		CorrelationID: "dep_user-1_123_abc",
		DepositID:     "dep-1",
		UserID:        "user-1",
	}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi/expired", gin.H{
		"event": "OPENPIX:CHARGE_EXPIRED",
		"charge": gin.H{
			"correlationID": "dep_user-1_123_abc",
			"status":        "EXPIRED",
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"expired"`)
	assert.Contains(t, rec.Body.String(), "dep_user-1_123_abc")

	deposits.AssertExpectations(t)
}

func TestHandleExpiryWebhook_IrrelevantEvent(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi/expired", gin.H{
		"event": "OPENPIX:CHARGE_CREATED",
		"charge": gin.H{
			"correlationID": "dep_user-1_123_abc",
			"status":        "ACTIVE",
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not an expiration event")

	deposits.AssertNotCalled(t, "HandleChargeExpired", mock.Anything, mock.Anything)
}

func TestHandleExpiryWebhook_MissingCorrelationID(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi/expired", gin.H{
		"event":  "OPENPIX:CHARGE_EXPIRED",
		"charge": gin.H{"status": "EXPIRED"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	deposits.AssertNotCalled(t, "HandleChargeExpired", mock.Anything, mock.Anything)
}

func TestHandleExpiryWebhook_UnknownCorrelationID(t *testing.T) {
	srv, _, deposits, _ := newTestServer()

	deposits.On("HandleChargeExpired", mock.Anything, mock.Anything).
		Return(nil, service.ErrDepositNotFound)

	rec := doJSON(t, srv, http.MethodPost, "/webhooks/woovi/expired", gin.H{
		"event": "charge.expired",
		"charge": gin.H{
			"correlationID": "dep_ghost_123_abc",
			"status":        "EXPIRED",
		},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	deposits.AssertExpectations(t)
}
