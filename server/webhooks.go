package server

import (
	"errors"
	"net/http"

	"raspadinha/gateway"
	"raspadinha/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// handlePaymentWebhook receives completion callbacks from the gateway. The
// gateway retries on anything but 2xx, so deliveries that match nothing are
// acknowledged with a bare OK rather than an error.
func (s *Server) handlePaymentWebhook(c *gin.Context) {
	var payload gateway.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := s.deposits.HandlePaymentCompleted(c.Request.Context(), &payload)
	if err != nil {
		if errors.Is(err, service.ErrAmountMismatch) {
			c.String(http.StatusBadRequest, "amount mismatch")
			return
		}
		log.WithError(err).Error("Payment webhook failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if !result.Applied {
		log.WithField("correlationId", result.CorrelationID).Debug("Payment webhook acknowledged without effect")
	}
	c.String(http.StatusOK, "OK")
}

// handleExpiryWebhook receives charge-expired callbacks. Unlike completion,
// an unknown correlation id here is a 404: the gateway only expires charges
// it created, so a miss means the deposit record is gone or was never ours.
func (s *Server) handleExpiryWebhook(c *gin.Context) {
	var payload gateway.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if !payload.ExpiredEvent() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Not an expiration event",
		})
		return
	}

	if payload.Charge == nil || payload.Charge.CorrelationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing charge correlationID"})
		return
	}

	result, err := s.deposits.HandleChargeExpired(c.Request.Context(), &payload)
	if err != nil {
		if errors.Is(err, service.ErrDepositNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending deposit for correlationID"})
			return
		}
		log.WithError(err).Error("Expiry webhook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Deposit marked as expired",
		"correlationID": result.CorrelationID,
		"status":        "expired",
	})
}
