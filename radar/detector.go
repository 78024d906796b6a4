// Package radar implements the XENSIV-style 60 GHz FMCW radar presence
// detector: a stateful multi-stage DSP pipeline that decides, frame by
// frame, whether a person is present, in which range bin, and whether the
// motion observed is macro (gross body motion) or micro (breathing).
//
// The Detector is single-threaded and cooperative: ProcessFrame runs to
// completion synchronously and must never be re-entered from its own
// callback. Callers are responsible for serializing SetConfig/Reset against
// ProcessFrame, exactly as spec.md §5 requires of the original C API.
package radar

import "math"

// bandpassWarmupDelayMs is the group-delay compensation window of the
// 65-tap bandpass filter (spec.md §3 invariant 4, §4.C).
const bandpassWarmupDelayMs = 490

// Detector is a presence-detection pipeline instance. Zero value is not
// usable; construct with New.
type Detector struct {
	config Config

	macroFFTSize     int // N/2, the range-FFT bin count
	maxRangeLimitIdx int // floor(5m / Δd), hard bin ceiling
	maxMicroFFTSize  int // micro_fft_size at New time; SetConfig may only shrink it

	macroWin          []float64 // Hamming window, length N
	rangeIntensityWin []float64 // w[k] = 0.2*(k+1), length macroFFTSize

	macroFFTBuffer        []complex128 // current range spectrum, length macroFFTSize
	lastMacroCompare      []complex128 // previous comparison snapshot
	macroLastCompareInit  bool
	bandpassMacroFFT      []complex128 // filtered range spectrum, length macroFFTSize
	macroBandpassFIR      []complexFIR // one per bin in [0, maxRangeLimitIdx)
	bandpassInitialTimeMs int64

	microFFTBuffer    []complex128 // history ring, maxMicroFFTSize x maxRangeLimitIdx
	microFFTColBuffer []complex128 // scratch column, length maxMicroFFTSize
	microWriteRowIdx  int
	microCalcColIdx   int
	microFFTReady     bool
	microAllCalc      bool

	microDecimWriteRowIdx int
	microDecimBuffer      []complex128 // decimationFactor x maxRangeLimitIdx
	microDecimFIR         []complexDecimateFIR

	macroLastCompareMs    int64
	macroMovementHitCount int
	lastMacroReportedIdx  int
	lastMicroReportedIdx  int
	lastReportedIdx       int

	maxMacro    float64
	maxMacroIdx int
	maxMicro    float64
	maxMicroIdx int

	macroDetectTimestamps  []int64
	microDetectTimestamps  []int64
	macroDetectConfidences []float64
	microDetectDistances   []float64

	state State

	// LastCompareSkipped reports whether the most recent ProcessFrame call
	// fell inside the macro compare gate but beyond the "one interval late"
	// tolerance of spec.md invariant §3.5, i.e. whether a comparison was
	// silently dropped and the baseline refreshed without evaluation. This
	// is a Go-only addition (spec.md design notes ask for exactly this
	// visibility) so tests can detect the skip instead of inferring it.
	LastCompareSkipped bool

	callback Callback
}

// New validates cfg, allocates every buffer it needs up front, and returns
// a Detector in the Absence state (spec.md §4.J alloc). No reallocation
// ever happens inside ProcessFrame.
func New(cfg Config) (*Detector, error) {
	if !isSupportedFFTLength(cfg.NumSamplesPerChirp) {
		return nil, ErrFFTLen
	}
	if !isSupportedFFTLength(cfg.MicroFFTSize) {
		return nil, ErrFFTLen
	}

	d := &Detector{config: cfg}
	d.macroFFTSize = cfg.NumSamplesPerChirp / 2
	d.maxRangeLimitIdx = maxRangeLimitIdx(cfg.BandwidthHz)
	d.maxMicroFFTSize = cfg.MicroFFTSize

	d.macroWin = make([]float64, cfg.NumSamplesPerChirp)
	hammingWindow(d.macroWin)

	d.macroFFTBuffer = make([]complex128, d.macroFFTSize)
	d.lastMacroCompare = make([]complex128, d.macroFFTSize)
	d.bandpassMacroFFT = make([]complex128, d.macroFFTSize)

	d.macroBandpassFIR = make([]complexFIR, d.maxRangeLimitIdx)
	for i := range d.macroBandpassFIR {
		d.macroBandpassFIR[i] = newComplexFIR(bandpassCoeffs)
	}

	d.microDecimBuffer = make([]complex128, decimationFactor*d.maxRangeLimitIdx)
	d.microDecimFIR = make([]complexDecimateFIR, d.maxRangeLimitIdx)
	for i := range d.microDecimFIR {
		d.microDecimFIR[i] = newComplexDecimateFIR()
	}

	d.microFFTBuffer = make([]complex128, d.maxMicroFFTSize*d.maxRangeLimitIdx)
	d.microFFTColBuffer = make([]complex128, d.maxMicroFFTSize)

	d.rangeIntensityWin = make([]float64, d.macroFFTSize)
	for i := range d.rangeIntensityWin {
		d.rangeIntensityWin[i] = 0.2 * float64(i+1)
	}

	d.macroDetectTimestamps = make([]int64, d.macroFFTSize)
	d.microDetectTimestamps = make([]int64, d.macroFFTSize)
	d.macroDetectConfidences = make([]float64, d.macroFFTSize)
	d.microDetectDistances = make([]float64, d.macroFFTSize)

	d.config.clampRangeBins(d.maxRangeLimitIdx)
	d.Reset()

	return d, nil
}

// Config returns a copy of the detector's current configuration
// (xensiv_radar_presence_get_config).
func (d *Detector) Config() Config {
	return d.config
}

// SetConfig copies cfg in, rejecting a MicroFFTSize increase beyond the
// value passed to New and clamping range bins to the bandwidth-derived
// ceiling (spec.md §4.J set_config, §3 invariant 2).
//
// Toggling MacroFFTBandpassFilterEnabled without a following Reset leaves
// filter state uninitialized-for-the-new-mode; spec.md's design notes flag
// this as a reference-implementation quirk and ask callers to Reset after
// toggling bandpass. This implementation preserves that contract rather
// than papering over it, so behavior stays comparable to the original.
func (d *Detector) SetConfig(cfg Config) error {
	if !isSupportedFFTLength(cfg.NumSamplesPerChirp) || !isSupportedFFTLength(cfg.MicroFFTSize) {
		return ErrFFTLen
	}
	if cfg.MicroFFTSize > d.maxMicroFFTSize {
		return ErrMicroFFTGrew
	}
	d.config = cfg
	d.config.clampRangeBins(d.maxRangeLimitIdx)
	return nil
}

// SetCallback registers fn to be invoked synchronously for every
// state-changing event. A nil fn disables event emission without changing
// state transitions (spec.md §7).
func (d *Detector) SetCallback(fn Callback) {
	d.callback = fn
}

// BinLength returns Δd = c / (2B) in meters (spec.md §6 get_bin_length).
func (d *Detector) BinLength() float64 {
	return binLength(d.config.BandwidthHz)
}

// State returns the detector's current presence state.
func (d *Detector) State() State {
	return d.state
}

// MaxMacro returns the largest macro score observed since the last call,
// clearing it on read (spec.md §6 get_max_macro).
func (d *Detector) MaxMacro() (Peak, bool) {
	if d.maxMacroIdx < 0 {
		return Peak{}, false
	}
	p := Peak{Score: d.maxMacro, Bin: d.maxMacroIdx}
	d.maxMacro = 0
	d.maxMacroIdx = -1
	return p, true
}

// MaxMicro returns the largest micro score observed since the last call,
// clearing it on read (spec.md §6 get_max_micro).
func (d *Detector) MaxMicro() (Peak, bool) {
	if d.maxMicroIdx < 0 {
		return Peak{}, false
	}
	p := Peak{Score: d.maxMicro, Bin: d.maxMicroIdx}
	d.maxMicro = 0
	d.maxMicroIdx = -1
	return p, true
}

// Reset clears all detection state without freeing buffers (spec.md §3
// invariant 3, §4.J reset). Two consecutive Reset calls are idempotent.
func (d *Detector) Reset() {
	d.microDecimWriteRowIdx = 0
	d.microWriteRowIdx = 0
	d.microFFTReady = false
	d.microCalcColIdx = 0
	d.microAllCalc = false

	for i := range d.macroDetectTimestamps {
		d.macroDetectTimestamps[i] = 0
		d.microDetectTimestamps[i] = 0
		d.macroDetectConfidences[i] = 0
		d.microDetectDistances[i] = 0
	}

	d.macroLastCompareInit = false
	d.macroLastCompareMs = 0
	d.macroMovementHitCount = 0
	d.lastMacroReportedIdx = -1
	d.lastMicroReportedIdx = -1
	d.lastReportedIdx = -1
	d.state = Absence
	d.maxMacro = 0
	d.maxMicro = 0
	d.maxMacroIdx = -1
	d.maxMicroIdx = -1
	d.bandpassInitialTimeMs = 0
	d.LastCompareSkipped = false
}

// emit delivers ev to the registered callback, if any.
func (d *Detector) emit(ev Event) {
	if d.callback != nil {
		d.callback(ev)
	}
}

// switchToAbsence transitions to Absence and emits the absence event
// (spec.md §4.E/§4.F, the shared switch_to_absence helper).
func (d *Detector) switchToAbsence(nowMs int64) {
	d.emit(Event{TimestampMs: nowMs, RangeBin: -1, State: Absence})
	d.state = Absence
	d.lastMicroReportedIdx = -1
	d.microAllCalc = false
}

// ProcessFrame runs one frame of N real samples (one chirp, already
// normalized to roughly [-0.5, 0.5]) through the full pipeline: range FFT,
// optional bandpass, macro comparison, history-ring update, and (when the
// mode and state permit) one round-robin step of the micro Doppler
// analysis (spec.md §4.B-§4.G).
func (d *Detector) ProcessFrame(samples []float32, nowMs int64) error {
	if len(samples) != d.config.NumSamplesPerChirp {
		return ErrFrameLength
	}

	if d.bandpassInitialTimeMs == 0 {
		for i := range d.macroBandpassFIR {
			d.macroBandpassFIR[i].reset()
		}
		d.bandpassInitialTimeMs = nowMs + bandpassWarmupDelayMs
	}

	real := make([]float64, len(samples))
	for i, s := range samples {
		real[i] = float64(s)
	}
	if err := realFFT(real, d.macroWin, d.macroFFTBuffer); err != nil {
		return ErrDSP
	}

	if d.config.MacroFFTBandpassFilterEnabled {
		for i := 0; i < d.maxRangeLimitIdx; i++ {
			d.bandpassMacroFFT[i] = d.macroBandpassFIR[i].step(d.macroFFTBuffer[i])
		}
	}

	macroSource := d.macroFFTBuffer
	if d.config.MacroFFTBandpassFilterEnabled {
		macroSource = d.bandpassMacroFFT
	}

	if !d.macroLastCompareInit {
		copy(d.lastMacroCompare, macroSource)
		d.macroLastCompareInit = true
	}

	d.processMacro(macroSource, nowMs)
	d.updateHistoryRing()

	if d.config.Mode == ModeMacroOnly ||
		(d.config.Mode == ModeMicroIfMacro && (d.state == Absence || d.state == MacroPresence)) {
		return nil
	}

	if d.microFFTReady {
		d.processMicro(nowMs)
	}

	d.reportMicro(nowMs)
	return nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
