package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentavosFromReais(t *testing.T) {
	assert.Equal(t, int64(100), CentavosFromReais(1.00))
	assert.Equal(t, int64(50), CentavosFromReais(0.50))
	assert.Equal(t, int64(1000000), CentavosFromReais(10000.00))

	// Float noise rounds to the nearest centavo
	assert.Equal(t, int64(1999), CentavosFromReais(19.99))
	assert.Equal(t, int64(10), CentavosFromReais(0.1))
}

func TestReaisFromCentavos(t *testing.T) {
	assert.InDelta(t, 1.0, ReaisFromCentavos(100), 1e-9)
	assert.InDelta(t, 19.99, ReaisFromCentavos(1999), 1e-9)
	assert.InDelta(t, -5.0, ReaisFromCentavos(-500), 1e-9)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,50", FormatBRL(50))
	assert.Equal(t, "R$ 1,00", FormatBRL(100))
	assert.Equal(t, "R$ 50,00", FormatBRL(5000))
	assert.Equal(t, "R$ 1.000,00", FormatBRL(100000))
	assert.Equal(t, "R$ 15.000,00", FormatBRL(1500000))
	assert.Equal(t, "R$ 1.234.567,89", FormatBRL(123456789))
	assert.Equal(t, "-R$ 25,00", FormatBRL(-2500))
}
