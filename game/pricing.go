package game

import "strings"

// Canonical card prices in centavos. The client also derives these for
// display; the server-side resolution is authoritative and requests whose
// declared price diverges are rejected before any state change.
const (
	PriceHouseCar  int64 = 1000 // R$ 10,00 - Casa e Onix
	PriceHighValue int64 = 500  // R$ 5,00 - high prizes, Moto, Casa Própria
	PriceSmall     int64 = 50   // R$ 0,50 - prizes up to R$ 500
	PriceDefault   int64 = 100  // R$ 1,00 - everything else
)

// Price thresholds in centavos.
const (
	highPrizeThreshold  int64 = 1500000 // R$ 15.000,00
	smallPrizeThreshold int64 = 50000   // R$ 500,00
)

// PriceTolerance is the maximum accepted divergence between the declared and
// resolved price, in centavos.
const PriceTolerance int64 = 1

// ResolvePrice maps a card's name and display prize to its canonical price in
// centavos. Pure function of its inputs; no I/O.
func ResolvePrice(cardName string, displayPrize int64) int64 {
	name := strings.ToLower(cardName)

	owned := strings.Contains(name, "própria") || strings.Contains(name, "propria")

	// "Casa Própria" belongs to the high-value bucket, not the house bucket.
	if (strings.Contains(name, "casa") && !owned) || strings.Contains(name, "onix") {
		return PriceHouseCar
	}

	if displayPrize >= highPrizeThreshold || strings.Contains(name, "moto") || owned {
		return PriceHighValue
	}

	if displayPrize <= smallPrizeThreshold {
		return PriceSmall
	}

	return PriceDefault
}

// PriceMatches reports whether a client-declared price is within tolerance of
// the resolved price.
func PriceMatches(resolved, declared int64) bool {
	diff := resolved - declared
	if diff < 0 {
		diff = -diff
	}
	return diff <= PriceTolerance
}
