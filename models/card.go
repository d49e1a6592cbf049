package models

import (
	"time"
)

// Card represents a scratch card product definition (raspadinhas table).
// Cards are created and edited by administrators and are read-only to the
// settlement path.
type Card struct {
	ID           string    `db:"id"`
	Name         string    `db:"nome"`
	ImageURL     string    `db:"imagem_url"`
	DisplayPrize int64     `db:"premio"`      // marketing prize figure, centavos
	CashPayout   int64     `db:"cash_payout"` // real amount credited on a win, centavos
	WinChance    float64   `db:"chances"`
	Active       bool      `db:"ativo"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
