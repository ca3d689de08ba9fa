package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	assert.Equal(t, 2000, PriceFor(10))
	assert.Equal(t, 5000, PriceFor(30))
	assert.Equal(t, 9000, PriceFor(60))

	// unsupported tiers price at zero
	assert.Equal(t, 0, PriceFor(15))
	assert.Equal(t, 0, PriceFor(0))
}

func TestSupported(t *testing.T) {
	for _, minutes := range Durations() {
		assert.True(t, Supported(minutes))
	}
	assert.False(t, Supported(45))
	assert.False(t, Supported(-10))
}

func TestDurations(t *testing.T) {
	assert.Equal(t, []int{10, 30, 60}, Durations())
}
