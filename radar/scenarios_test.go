package radar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func zeroFrame(n int) []float32 {
	return make([]float32, n)
}

func sinFrame(n, bin int, amp float64) []float32 {
	out := make([]float32, n)
	freq := float64(bin) / float64(n)
	for i := range out {
		out[i] = float32(amp * math.Cos(2*math.Pi*freq*float64(i)))
	}
	return out
}

// S1 — quiet room: 1000 zero-valued frames at 10 ms cadence produce no
// events and leave the detector in Absence (spec.md §8 S1).
func TestQuietRoomProducesNoEvents(t *testing.T) {
	cfg := DefaultConfig()
	det, err := New(cfg)
	assert.NoError(t, err)

	var events []Event
	det.SetCallback(func(ev Event) { events = append(events, ev) })

	for i := 0; i < 1000; i++ {
		err := det.ProcessFrame(zeroFrame(cfg.NumSamplesPerChirp), int64(i)*10)
		assert.NoError(t, err)
	}

	assert.Empty(t, events)
	assert.Equal(t, Absence, det.State())
}

// S2 — walk-in: frames 0..100 zero, frames 100..200 carry a strong return
// at bin 5, then zero again; expect a MACRO_PRESENCE event at bin 5 by
// frame <=110, followed by decay through MICRO_PRESENCE back to ABSENCE
// once the micro validity window expires (spec.md §8 S2).
func TestWalkInTriggersMacroThenDecaysToAbsence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeMicroIfMacro
	cfg.MacroThreshold = 1.0
	cfg.MacroMovementConfirmations = 0
	cfg.MacroTriggerRange = 1
	cfg.MacroCompareIntervalMs = 10

	det, err := New(cfg)
	assert.NoError(t, err)

	var events []Event
	det.SetCallback(func(ev Event) { events = append(events, ev) })

	const frameMs = 10
	triggerFrame := -1
	for i := 0; i < 1200; i++ {
		var frame []float32
		switch {
		case i < 100:
			frame = zeroFrame(cfg.NumSamplesPerChirp)
		case i < 200:
			frame = sinFrame(cfg.NumSamplesPerChirp, 5, 0.4)
		default:
			frame = zeroFrame(cfg.NumSamplesPerChirp)
		}

		assert.NoError(t, det.ProcessFrame(frame, int64(i)*frameMs))

		if triggerFrame < 0 {
			for _, ev := range events {
				if ev.State == MacroPresence && ev.RangeBin == 5 {
					triggerFrame = i
				}
			}
		}
	}

	assert.GreaterOrEqual(t, triggerFrame, 0, "expected a MACRO_PRESENCE event at bin 5")
	assert.LessOrEqual(t, triggerFrame, 110)
	assert.Equal(t, Absence, det.State(), "state should decay back to ABSENCE once validity windows expire")
}

// S3 — breathing only: an amplitude-modulated (slow-time) return at bin 8
// with no macro motion should, in MICRO_ONLY mode, eventually emit a
// MICRO_PRESENCE event reporting bin 8 (spec.md §8 S3).
func TestBreathingOnlyTriggersMicroPresence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeMicroOnly
	cfg.MicroThreshold = 0.5
	cfg.MicroFFTSize = 16
	cfg.MaxRangeBin = 8

	det, err := New(cfg)
	assert.NoError(t, err)

	var events []Event
	det.SetCallback(func(ev Event) { events = append(events, ev) })

	const frameMs = 10
	const breathingHz = 0.3
	for i := 0; i < 2000; i++ {
		tSec := float64(i) * frameMs / 1000.0
		amp := 0.3 + 0.1*math.Sin(2*math.Pi*breathingHz*tSec)
		frame := sinFrame(cfg.NumSamplesPerChirp, 8, amp)
		assert.NoError(t, det.ProcessFrame(frame, int64(i)*frameMs))
	}

	found := false
	for _, ev := range events {
		if ev.State == MicroPresence && ev.RangeBin == 8 {
			found = true
		}
	}
	assert.True(t, found, "expected a MICRO_PRESENCE event at bin 8")
}

// S4 — reconfigure mid-run: lowering max_range_bin below a previously
// reported bin must not crash, must clamp, and must suppress further
// emission for the clamped-out bin (spec.md §8 S4).
func TestReconfigureMidRunClampsWithoutCrash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeMacroOnly
	cfg.MacroThreshold = 1.0
	cfg.MacroCompareIntervalMs = 10

	det, err := New(cfg)
	assert.NoError(t, err)

	var events []Event
	det.SetCallback(func(ev Event) { events = append(events, ev) })

	for i := 0; i < 150; i++ {
		var frame []float32
		if i < 100 {
			frame = zeroFrame(cfg.NumSamplesPerChirp)
		} else {
			frame = sinFrame(cfg.NumSamplesPerChirp, 5, 0.4)
		}
		assert.NoError(t, det.ProcessFrame(frame, int64(i)*10))
	}

	assert.NotEmpty(t, events, "expected a prior MACRO_PRESENCE event")

	cur := det.Config()
	cur.MaxRangeBin = 3
	assert.NoError(t, det.SetConfig(cur))
	assert.Equal(t, 3, det.Config().MaxRangeBin)

	for i := 150; i < 160; i++ {
		assert.NotPanics(t, func() {
			_ = det.ProcessFrame(sinFrame(cfg.NumSamplesPerChirp, 5, 0.4), int64(i)*10)
		})
	}
}
