// Package aoa estimates the range and angle of arrival of the single
// strongest reflector visible to a 3-antenna 60 GHz radar frame: average
// the frame's chirps down to one per antenna, run a per-antenna range FFT,
// find the shared peak bin, and turn the RX1/RX2-vs-RX3 phase differences
// at that bin into an elevation/azimuth pair (spec.md §4.H). No window is
// applied to the averaged chirps before the FFT.
//
// This is grounded on angle_range.c's active implementation (the
// FreeRTOS-critical-section variant guarded by `#if 0` in the original
// source is legacy and was not ported).
package aoa

import "math"

const (
	numSamplesPerChirp = 128
	numRXAntennas      = 3
	numChirpsPerFrame  = 16

	carrierFreqHz = 60.0e9
	bandwidthHz   = 2000.0e6
	chirpPeriodS  = 6.9e-5
	sampleRateHz  = 2352941.0
	lightSpeedMPS = 299792458.0

	antSpacingXM = 0.0025
	antSpacingYM = 0.0025
)

// FrameSampleCount is the number of complex samples Compute expects:
// one frame is numChirpsPerFrame chirps, each numSamplesPerChirp samples,
// each numRXAntennas antennas, each sample a (real, imag) pair.
const FrameSampleCount = numChirpsPerFrame * numSamplesPerChirp * numRXAntennas

// Result is a single angle/range estimate (spec.md §4.H, §6).
type Result struct {
	RangeM      float64
	ElevationDeg float64
	AzimuthDeg   float64
	PeakPowerDb  float64
	PeakBin      int
	Valid        bool
}

// Estimator holds the scratch buffers for Compute so repeated calls don't
// allocate (mirrors the reference implementation's static antenna_data).
type Estimator struct {
	antenna [numRXAntennas][]complex128
}

// New returns a ready-to-use Estimator.
func New() *Estimator {
	e := &Estimator{}
	for i := range e.antenna {
		e.antenna[i] = make([]complex128, numSamplesPerChirp)
	}
	return e
}

// buildAverageChirp averages numChirpsPerFrame chirps of frame down to one
// chirp per antenna. frame is interleaved
// [chirp][sample][antenna](real, imag), row-major, length FrameSampleCount*2.
func (e *Estimator) buildAverageChirp(frame []float32) {
	const sampleStride = numRXAntennas * 2
	const chirpStride = numSamplesPerChirp * sampleStride

	for a := 0; a < numRXAntennas; a++ {
		for s := 0; s < numSamplesPerChirp; s++ {
			e.antenna[a][s] = 0
		}
	}

	for c := 0; c < numChirpsPerFrame; c++ {
		chirpBase := c * chirpStride
		for s := 0; s < numSamplesPerChirp; s++ {
			sampleBase := chirpBase + s*sampleStride
			for a := 0; a < numRXAntennas; a++ {
				re := float64(frame[sampleBase+a*2])
				im := float64(frame[sampleBase+a*2+1])
				e.antenna[a][s] += complex(re, im)
			}
		}
	}

	scale := 1.0 / float64(numChirpsPerFrame)
	for a := 0; a < numRXAntennas; a++ {
		for s := 0; s < numSamplesPerChirp; s++ {
			e.antenna[a][s] *= complex(scale, 0)
		}
	}
}

func removeMean(buf []complex128) {
	var mean complex128
	for _, v := range buf {
		mean += v
	}
	mean = complex(real(mean)/float64(len(buf)), imag(mean)/float64(len(buf)))
	for i := range buf {
		buf[i] -= mean
	}
}

// Compute runs one frame (FrameSampleCount real+imag sample pairs,
// interleaved per spec.md §4.H) through the AoA pipeline. The bool result
// mirrors angle_range_compute's return value; Result.Valid carries the
// same information for callers that keep the struct around.
func (e *Estimator) Compute(frame []float32) (Result, bool) {
	if len(frame) != FrameSampleCount*2 {
		return Result{}, false
	}

	e.buildAverageChirp(frame)

	for a := 0; a < numRXAntennas; a++ {
		removeMean(e.antenna[a])
		complexFFT(e.antenna[a])
	}

	peakMag := 0.0
	peakBin := 0
	for bin := 1; bin < numSamplesPerChirp/2; bin++ {
		v := e.antenna[0][bin]
		mag := real(v)*real(v) + imag(v)*imag(v)
		if mag > peakMag {
			peakMag = mag
			peakBin = bin
		}
	}

	if peakMag <= 0 || peakBin == 0 {
		return Result{Valid: false}, false
	}

	lambda := lightSpeedMPS / carrierFreqHz
	freqBinHz := float64(peakBin) * sampleRateHz / numSamplesPerChirp
	rangeM := freqBinHz * lightSpeedMPS * chirpPeriodS / (2 * bandwidthHz)

	rx1 := e.antenna[0][peakBin]
	rx2 := e.antenna[1][peakBin]
	rx3 := e.antenna[2][peakBin]

	crossX := complex(real(rx2)*real(rx3)+imag(rx2)*imag(rx3), imag(rx2)*real(rx3)-real(rx2)*imag(rx3))
	crossY := complex(real(rx1)*real(rx3)+imag(rx1)*imag(rx3), imag(rx1)*real(rx3)-real(rx1)*imag(rx3))

	dphiX := math.Atan2(imag(crossX), real(crossX))
	dphiY := math.Atan2(imag(crossY), real(crossY))

	u := (lambda / (2 * math.Pi * antSpacingXM)) * dphiX
	v := (lambda / (2 * math.Pi * antSpacingYM)) * dphiY
	sinTheta := math.Hypot(u, v)
	if sinTheta > 1 {
		sinTheta = 1
	}

	thetaRad := math.Asin(math.Max(sinTheta, 0))
	phiRad := math.Atan2(v, u)

	return Result{
		RangeM:       rangeM,
		ElevationDeg: thetaRad * 180 / math.Pi,
		AzimuthDeg:   phiRad * 180 / math.Pi,
		PeakPowerDb:  10 * math.Log10(peakMag),
		PeakBin:      peakBin,
		Valid:        true,
	}, true
}
