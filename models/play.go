package models

import "time"

// Play represents one resolved scratch card play (jogadas table). Rows are
// immutable once written; they feed history and analytics, never balance
// recomputation.
type Play struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	CardID      string    `db:"raspadinha_id"`
	Won         bool      `db:"resultado"`
	PrizeAmount int64     `db:"premio_ganho"` // centavos
	Simulated   bool      `db:"is_simulated"`
	CreatedAt   time.Time `db:"created_at"`
}

// PlayWithCard is a play joined with its card's display fields, used for the
// recent-wins strip in the play response.
type PlayWithCard struct {
	Play
	CardName     string `db:"nome"`
	CardImageURL string `db:"imagem_url"`
}

// PlayResult is the full outcome of a settled play returned to the client.
type PlayResult struct {
	Won          bool
	PrizeAmount  int64 // centavos
	NewBalance   int64 // centavos
	Message      string
	Grid         []int64 // 9 display values, reais
	WinningCells []int   // 1-based positions, empty on a loss
	RecentWins   []*PlayWithCard
}
