package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		assert.InDelta(t, 69.17, Haversine(0, 0, 0, 1), 0.1)
	})

	t.Run("same point is zero", func(t *testing.T) {
		assert.InDelta(t, 0, Haversine(32.7767, -96.797, 32.7767, -96.797), 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		dallas := [2]float64{32.7767, -96.797}
		chicago := [2]float64{41.8781, -87.6298}

		ab := Haversine(dallas[0], dallas[1], chicago[0], chicago[1])
		ba := Haversine(chicago[0], chicago[1], dallas[0], dallas[1])

		assert.InDelta(t, ab, ba, 1e-9)
		// Dallas to Chicago is roughly 800 miles as the crow flies.
		assert.InDelta(t, 800, ab, 20)
	})
}
