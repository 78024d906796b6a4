package radar

import "math"

// speedOfLightMPS is c, used for the range resolution and range-bin laws of
// spec.md §3/§4.B.
const speedOfLightMPS = 299792458.0

// maxRangeLimitM is the hard range ceiling beyond which bins are never
// tracked, regardless of configuration (spec.md §3 invariant 1, §4.J).
const maxRangeLimitM = 5.0

// Config mirrors xensiv_radar_presence_config_t (spec.md §4.J, §6).
type Config struct {
	// BandwidthHz is the FMCW sweep bandwidth B, used to derive the range
	// bin length Δd = c / (2B).
	BandwidthHz float64

	// NumSamplesPerChirp is N, the range-FFT length. Must be a supported
	// power of two.
	NumSamplesPerChirp int

	// MicroFFTSize is the slow-time Doppler FFT length (history ring depth).
	// Must be a supported power of two and may only shrink after New.
	MicroFFTSize int

	MicroFFTDecimationEnabled bool

	MacroThreshold float64
	MicroThreshold float64

	MinRangeBin int
	MaxRangeBin int

	MacroCompareIntervalMs  int64
	MacroMovementValidityMs int64
	MicroMovementValidityMs int64

	MacroMovementConfirmations int
	MacroTriggerRange          int

	Mode Mode

	MacroFFTBandpassFilterEnabled bool

	// MicroMovementCompareIdx bounds the low-Doppler-bin energy sum of the
	// micro score (spec.md §4.F step 4).
	MicroMovementCompareIdx int
}

// DefaultConfig returns the factory defaults of
// xensiv_radar_presence_init_config (spec.md §4.J).
func DefaultConfig() Config {
	return Config{
		BandwidthHz:                   460e6,
		NumSamplesPerChirp:            128,
		MicroFFTDecimationEnabled:     false,
		MicroFFTSize:                  128,
		MacroThreshold:                1.0,
		MicroThreshold:                25.0,
		MinRangeBin:                   1,
		MaxRangeBin:                   5,
		MacroCompareIntervalMs:        250,
		MacroMovementValidityMs:       1000,
		MicroMovementValidityMs:       4000,
		MacroMovementConfirmations:    0,
		MacroTriggerRange:             1,
		Mode:                          ModeMicroIfMacro,
		MacroFFTBandpassFilterEnabled: false,
		MicroMovementCompareIdx:       5,
	}
}

// binLength returns Δd = c / (2B) in meters, spec.md §3.
func binLength(bandwidthHz float64) float64 {
	return speedOfLightMPS / (2 * bandwidthHz)
}

// maxRangeLimitIdx returns floor(5.0 / Δd), the hard ceiling on tracked
// range bins (spec.md §4.J).
func maxRangeLimitIdx(bandwidthHz float64) int {
	return int(math.Floor(maxRangeLimitM / binLength(bandwidthHz)))
}

// clampRangeBins enforces invariant 1 of spec.md §3:
// min_range_bin ≤ max_range_bin ≤ max_range_bin_limit ≤ N/2.
func (c *Config) clampRangeBins(limitIdx int) {
	if c.MinRangeBin > limitIdx {
		c.MinRangeBin = limitIdx
	}
	if c.MaxRangeBin > limitIdx {
		c.MaxRangeBin = limitIdx
	}
	if c.MinRangeBin > c.MaxRangeBin {
		c.MinRangeBin = c.MaxRangeBin
	}
}
