package server

import (
	"errors"
	"net/http"
	"time"

	"raspadinha/models"
	"raspadinha/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Amounts cross this boundary in reais; everything behind it is centavos.

type processGameRequest struct {
	CardID    string  `json:"scratch_card_id" binding:"required"`
	UserID    string  `json:"user_id" binding:"required"`
	CardPrice float64 `json:"card_price" binding:"required,gt=0"`
}

type recentWinResponse struct {
	CardName     string    `json:"card_name"`
	CardImageURL string    `json:"card_image_url,omitempty"`
	PrizeAmount  float64   `json:"prize_amount"`
	WonAt        time.Time `json:"won_at"`
}

type processGameResponse struct {
	Success      bool                `json:"success"`
	IsWinner     bool                `json:"is_winner"`
	PrizeAmount  float64             `json:"prize_amount"`
	NewBalance   float64             `json:"new_balance"`
	Message      string              `json:"message"`
	Grid         []int64             `json:"grid"`
	WinningCells []int               `json:"winning_cells"`
	RecentWins   []recentWinResponse `json:"recent_wins"`
	// Legacy aliases kept for older clients
	Win   bool    `json:"win"`
	Prize float64 `json:"prize"`
}

func (s *Server) handleProcessGame(c *gin.Context) {
	var req processGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scratch_card_id, user_id and card_price are required"})
		return
	}

	result, err := s.games.ProcessGame(c.Request.Context(), service.ProcessGameRequest{
		CardID:    req.CardID,
		UserID:    req.UserID,
		CardPrice: models.CentavosFromReais(req.CardPrice),
	})
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	prize := models.ReaisFromCentavos(result.PrizeAmount)

	wins := make([]recentWinResponse, 0, len(result.RecentWins))
	for _, w := range result.RecentWins {
		wins = append(wins, recentWinResponse{
			CardName:     w.CardName,
			CardImageURL: w.CardImageURL,
			PrizeAmount:  models.ReaisFromCentavos(w.PrizeAmount),
			WonAt:        w.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, processGameResponse{
		Success:      true,
		IsWinner:     result.Won,
		PrizeAmount:  prize,
		NewBalance:   models.ReaisFromCentavos(result.NewBalance),
		Message:      result.Message,
		Grid:         result.Grid,
		WinningCells: result.WinningCells,
		RecentWins:   wins,
		Win:          result.Won,
		Prize:        prize,
	})
}

type createDepositRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type createDepositResponse struct {
	Success        bool    `json:"success"`
	DepositID      string  `json:"deposit_id"`
	CorrelationID  string  `json:"correlation_id"`
	Amount         float64 `json:"amount"`
	BRCode         string  `json:"br_code"`
	QRCodeImage    string  `json:"qr_code_image"`
	PixKey         string  `json:"pix_key,omitempty"`
	PaymentLinkURL string  `json:"payment_link_url,omitempty"`
	ExpiresIn      int     `json:"expires_in"`
}

func (s *Server) handleCreateDeposit(c *gin.Context) {
	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and a positive amount are required"})
		return
	}

	charge, err := s.deposits.CreateDeposit(c.Request.Context(), req.UserID, models.CentavosFromReais(req.Amount))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, createDepositResponse{
		Success:        true,
		DepositID:      charge.DepositID,
		CorrelationID:  charge.CorrelationID,
		Amount:         models.ReaisFromCentavos(charge.Amount),
		BRCode:         charge.BRCode,
		QRCodeImage:    charge.QRCodeImage,
		PixKey:         charge.PixKey,
		PaymentLinkURL: charge.PaymentLinkURL,
		ExpiresIn:      charge.ExpiresIn,
	})
}

type depositStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleGetDeposit(c *gin.Context) {
	deposit, err := s.deposits.GetDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	if deposit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
		return
	}

	c.JSON(http.StatusOK, depositStatusResponse{
		ID:        deposit.ID,
		Status:    string(deposit.Status),
		Amount:    models.ReaisFromCentavos(deposit.Amount),
		Method:    deposit.Method,
		CreatedAt: deposit.CreatedAt,
		UpdatedAt: deposit.UpdatedAt,
	})
}

type adminAdjustRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
}

func (s *Server) handleAdminAdjust(c *gin.Context) {
	var req adminAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, amount and reason are required"})
		return
	}

	newBalance, err := s.ledger.Settle(c.Request.Context(), req.UserID,
		models.CentavosFromReais(req.Amount), models.TransactionTypeAdminAdjustment, "",
		map[string]any{"reason": req.Reason}, false)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"new_balance": models.ReaisFromCentavos(newBalance),
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Internal failures get a generic body; the detail goes to the log only.
func (s *Server) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "scratch card not found"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrDepositNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
	case errors.Is(err, service.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "card price does not match"})
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount out of bounds"})
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
	case errors.Is(err, service.ErrAmountMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount mismatch"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
