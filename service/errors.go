package service

import "errors"

// Error taxonomy surfaced to the HTTP layer. Validation and not-found errors
// carry zero side effects; everything else means the operation terminated
// without a partial balance change.
var (
	// ErrCardNotFound: unknown or inactive card
	ErrCardNotFound = errors.New("scratch card not found or inactive")

	// ErrProfileNotFound: unknown user account
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrInvalidPrice: client-declared price diverges from the pricing rule
	ErrInvalidPrice = errors.New("invalid card price")

	// ErrInsufficientBalance: play price exceeds the available balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount: deposit or adjustment amount out of bounds
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountMismatch: webhook-reported value diverges from the stored
	// deposit amount; the deposit is marked failed and never credited
	ErrAmountMismatch = errors.New("amount mismatch")

	// ErrDepositNotFound: status poll or expiry callback for an unknown id
	ErrDepositNotFound = errors.New("deposit not found")
)
