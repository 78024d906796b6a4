package aoa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildFrame constructs a synthetic interleaved frame
// [chirp][sample][antenna](real, imag) where all numChirpsPerFrame chirps
// are identical (so averaging is a no-op) and every antenna sees the same
// single-frequency tone at binIdx, with per-antenna phase offsets applied
// at that bin via a per-sample phase ramp.
func buildFrame(binIdx int, amp float64, phaseOffsets [numRXAntennas]float64) []float32 {
	frame := make([]float32, FrameSampleCount*2)
	const sampleStride = numRXAntennas * 2
	const chirpStride = numSamplesPerChirp * sampleStride
	freq := float64(binIdx) / float64(numSamplesPerChirp)

	for c := 0; c < numChirpsPerFrame; c++ {
		chirpBase := c * chirpStride
		for s := 0; s < numSamplesPerChirp; s++ {
			sampleBase := chirpBase + s*sampleStride
			for a := 0; a < numRXAntennas; a++ {
				phase := 2*math.Pi*freq*float64(s) + phaseOffsets[a]
				frame[sampleBase+a*2] = float32(amp * math.Cos(phase))
				frame[sampleBase+a*2+1] = float32(amp * math.Sin(phase))
			}
		}
	}
	return frame
}

// S5 — AoA single target: equal-amplitude returns across three antennas
// with phase offsets dphi_x = pi/4 (RX2 vs RX3), dphi_y = 0 (RX1 vs RX3)
// should yield azimuth ~= 0 and the expected elevation (spec.md §8 S5).
func TestComputeSingleTargetAngle(t *testing.T) {
	const binIdx = 20
	const dphiX = math.Pi / 4
	// antenna order: [0]=RX1, [1]=RX2, [2]=RX3
	phases := [numRXAntennas]float64{0, dphiX, 0}

	frame := buildFrame(binIdx, 1.0, phases)
	e := New()
	res, ok := e.Compute(frame)

	assert.True(t, ok)
	assert.True(t, res.Valid)
	assert.Equal(t, binIdx, res.PeakBin)
	assert.InDelta(t, 0, res.AzimuthDeg, 1.0)

	lambda := lightSpeedMPS / carrierFreqHz
	u := (lambda / (2 * math.Pi * antSpacingXM)) * dphiX
	wantElevation := math.Asin(math.Min(math.Abs(u), 1)) * 180 / math.Pi
	assert.InDelta(t, wantElevation, res.ElevationDeg, 1.0)
}

// S6 — AoA no target: an all-zero frame has no spectral peak and Compute
// reports invalid (spec.md §8 S6).
func TestComputeAllZeroFrameIsInvalid(t *testing.T) {
	frame := make([]float32, FrameSampleCount*2)
	e := New()
	res, ok := e.Compute(frame)

	assert.False(t, ok)
	assert.False(t, res.Valid)
}
