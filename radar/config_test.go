package radar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBinLengthMatchesDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	got := binLength(cfg.BandwidthHz)
	want := speedOfLightMPS / (2 * cfg.BandwidthHz)
	assert.InDelta(t, want, got, 1e-12)
}

// Invariant 7: the range-to-bin law, |bin_of(range_of(k)) - k| <= 1, for
// every supported bandwidth and every bin within the bandwidth's ceiling.
func TestRangeToBinLawHoldsForSupportedBandwidths(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bandwidthHz := rapid.Float64Range(100e6, 4000e6).Draw(t, "bandwidthHz")
		delta := binLength(bandwidthHz)
		limit := maxRangeLimitIdx(bandwidthHz)
		if limit <= 0 {
			return
		}

		k := rapid.IntRange(0, limit).Draw(t, "bin")
		rangeM := float64(k) * delta
		binOfRange := int(math.Round(rangeM / delta))

		diff := binOfRange - k
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1)
	})
}

func TestMaxRangeLimitIdxRespectsFiveMeterCeiling(t *testing.T) {
	cfg := DefaultConfig()
	limit := maxRangeLimitIdx(cfg.BandwidthHz)
	delta := binLength(cfg.BandwidthHz)
	assert.LessOrEqual(t, float64(limit)*delta, maxRangeLimitM)
}
