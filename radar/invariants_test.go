package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Invariant 6: Config()/SetConfig() round-trips without side effects.
func TestConfigRoundTripIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		det, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}

		before := det.Config()
		assert.NoError(t, det.SetConfig(before))
		after := det.Config()
		assert.Equal(t, before, after)
	})
}

// Invariant 8: two consecutive Reset calls are idempotent and always
// return the detector to Absence with no pending max-score peaks.
func TestResetIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		det, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}

		n := rapid.IntRange(0, 50).Draw(t, "numFrames")
		for i := 0; i < n; i++ {
			amp := rapid.Float64Range(-1, 1).Draw(t, "amp")
			frame := make([]float32, cfg.NumSamplesPerChirp)
			for j := range frame {
				frame[j] = float32(amp)
			}
			_ = det.ProcessFrame(frame, int64(i)*10)
		}

		det.Reset()
		det.Reset()

		assert.Equal(t, Absence, det.State())
		_, macroOK := det.MaxMacro()
		_, microOK := det.MaxMicro()
		assert.False(t, macroOK)
		assert.False(t, microOK)
	})
}

// Invariant 2: reported range bins are always either within
// [MinRangeBin, MaxRangeBin] or the sentinel -1.
func TestReportedBinIsAlwaysInRangeOrSentinel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		cfg.MacroCompareIntervalMs = 10
		det, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}

		var lastBin = -1
		det.SetCallback(func(ev Event) {
			if ev.RangeBin != -1 {
				assert.GreaterOrEqual(t, ev.RangeBin, cfg.MinRangeBin)
				assert.LessOrEqual(t, ev.RangeBin, cfg.MaxRangeBin)
			}
			lastBin = ev.RangeBin
		})

		n := rapid.IntRange(1, 200).Draw(t, "numFrames")
		for i := 0; i < n; i++ {
			amp := rapid.Float64Range(-0.5, 0.5).Draw(t, "amp")
			frame := make([]float32, cfg.NumSamplesPerChirp)
			for j := range frame {
				frame[j] = float32(amp)
			}
			_ = det.ProcessFrame(frame, int64(i)*10)
		}
		_ = lastBin
	})
}

// Invariant 1/clamp: SetConfig never allows min/max range bin to exceed
// the bandwidth-derived ceiling, regardless of what the caller asked for.
func TestSetConfigAlwaysClampsRangeBins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		det, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}

		cfg.MinRangeBin = rapid.IntRange(0, 10000).Draw(t, "min")
		cfg.MaxRangeBin = rapid.IntRange(0, 10000).Draw(t, "max")
		assert.NoError(t, det.SetConfig(cfg))

		got := det.Config()
		assert.LessOrEqual(t, got.MinRangeBin, det.maxRangeLimitIdx)
		assert.LessOrEqual(t, got.MaxRangeBin, det.maxRangeLimitIdx)
	})
}

// Invariant 2 (micro_fft_size): SetConfig rejects any attempt to grow
// MicroFFTSize past the value given to New.
func TestSetConfigRejectsMicroFFTGrowth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MicroFFTSize = 64
	det, err := New(cfg)
	assert.NoError(t, err)

	grown := det.Config()
	grown.MicroFFTSize = 128
	assert.ErrorIs(t, det.SetConfig(grown), ErrMicroFFTGrew)

	shrunk := det.Config()
	shrunk.MicroFFTSize = 32
	assert.NoError(t, det.SetConfig(shrunk))
}
