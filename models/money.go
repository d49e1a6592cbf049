package models

import (
	"fmt"
	"math"
	"strings"
)

// All monetary amounts in the system are carried as int64 centavos. The JSON
// boundary speaks reais (the original wire format), so conversion happens only
// in the server package.

// CentavosFromReais converts a reais amount to centavos, rounding to the
// nearest centavo.
func CentavosFromReais(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ReaisFromCentavos converts centavos back to a reais amount.
func ReaisFromCentavos(c int64) float64 {
	return float64(c) / 100
}

// FormatBRL renders centavos as a pt-BR currency string, e.g. "R$ 1.000,00".
func FormatBRL(c int64) string {
	neg := c < 0
	if neg {
		c = -c
	}
	whole := c / 100
	cents := c % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), cents)
	if neg {
		return "-" + out
	}
	return out
}
