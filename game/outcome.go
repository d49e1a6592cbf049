package game

import (
	"raspadinha/models"
)

const (
	// DefaultWinChance applies when a card's configured chance is unset or
	// non-positive.
	DefaultWinChance = 0.25

	// MaxWinChance caps configured chances so a misconfigured card can never
	// guarantee wins.
	MaxWinChance = 0.95

	// PrivilegedWinChance is the fixed chance for admin and influencer
	// accounts, decoupled from the card's economics. Their plays are always
	// simulated and never draw from the real prize pool.
	PrivilegedWinChance = 0.20
)

// Prize fallbacks in centavos, used when a card has no cash payout configured.
const (
	fallbackPrizeCap  int64 = 100000 // R$ 1.000,00
	fallbackPrizeFlat int64 = 10000  // R$ 100,00
)

// Outcome is a resolved win/loss decision with its prize amount. It is fixed
// server-side before any response data (grid included) is constructed.
type Outcome struct {
	Winner    bool
	Prize     int64 // centavos, 0 on a loss
	Simulated bool
}

// Resolver decides play outcomes. The random source is injectable for tests
// and defaults to a CSPRNG.
type Resolver struct {
	randFloat func() float64
}

// NewResolver creates an outcome resolver backed by crypto/rand.
func NewResolver() *Resolver {
	return &Resolver{randFloat: secureFloat64}
}

// NewResolverWithSource creates a resolver with a custom random source.
// Intended for tests.
func NewResolverWithSource(randFloat func() float64) *Resolver {
	return &Resolver{randFloat: randFloat}
}

// Resolve draws a win/loss outcome for the card under the given role.
func (r *Resolver) Resolve(card *models.Card, role models.Role) Outcome {
	out := Outcome{Simulated: role.Privileged()}

	chance := EffectiveWinChance(card.WinChance)
	if out.Simulated {
		chance = PrivilegedWinChance
	}

	if r.randFloat() < chance {
		out.Winner = true
		out.Prize = CashPayout(card)
	}

	return out
}

// EffectiveWinChance clamps a configured win chance into (0, MaxWinChance],
// substituting the default for unset or non-positive values.
func EffectiveWinChance(raw float64) float64 {
	if raw <= 0 {
		return DefaultWinChance
	}
	if raw > MaxWinChance {
		return MaxWinChance
	}
	return raw
}

// CashPayout returns the amount in centavos credited when the card wins: the
// configured cash payout, or a fallback derived from the display prize capped
// at R$ 1.000,00, or a flat R$ 100,00 when neither is set.
func CashPayout(card *models.Card) int64 {
	if card.CashPayout > 0 {
		return card.CashPayout
	}
	if card.DisplayPrize > 0 {
		if card.DisplayPrize < fallbackPrizeCap {
			return card.DisplayPrize
		}
		return fallbackPrizeCap
	}
	return fallbackPrizeFlat
}
