package testutil

import (
	"raspadinha/models"

	"github.com/google/uuid"
)

// NewUserID returns a fresh user id. The schema keys profiles on UUIDs
// issued by the identity provider.
func NewUserID() string {
	return uuid.NewString()
}

// CreateTestCard builds a card definition with sane defaults
func CreateTestCard(name string, displayPrize int64) *models.Card {
	return &models.Card{
		Name:         name,
		ImageURL:     "https://cdn.example.com/cards/" + uuid.NewString() + ".png",
		DisplayPrize: displayPrize,
		CashPayout:   2500,
		WinChance:    0.25,
		Active:       true,
	}
}

// CreateTestDeposit builds a pending deposit for a user
func CreateTestDeposit(userID string, amount int64) *models.Deposit {
	return &models.Deposit{
		UserID:      userID,
		Amount:      amount,
		Status:      models.DepositStatusPending,
		Method:      "PIX",
		ExternalRef: "dep_" + userID + "_" + uuid.NewString()[:8],
	}
}

// CreateTestPlay builds a play record
func CreateTestPlay(userID, cardID string, won bool, prize int64) *models.Play {
	return &models.Play{
		UserID:      userID,
		CardID:      cardID,
		Won:         won,
		PrizeAmount: prize,
	}
}
