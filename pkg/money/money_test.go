package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹0.00", Format(0))
	assert.Equal(t, "₹500.00", Format(500))
	assert.Equal(t, "₹123.46", Format(123.456))
	assert.Equal(t, "₹-50.00", Format(-50))
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, "₹0.00", Format(math.NaN()))
	assert.Equal(t, "₹0.00", Format(math.Inf(1)))
	assert.Equal(t, "₹0.00", Format(math.Inf(-1)))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 123.46, Round2(123.456), 1e-9)
	assert.InDelta(t, 10.0, Round2(10.004), 1e-9)
	assert.Equal(t, -50.0, Round2(-50))
	assert.Equal(t, 0.0, Round2(math.NaN()))
}
