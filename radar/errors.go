package radar

import "errors"

// Sentinel errors mirroring the status codes of spec.md §7. Go has no
// analogue to a pluggable allocator running out of memory mid-detector —
// that failure mode collapses into the ordinary error return of New.
var (
	// ErrFFTLen is returned when a configured FFT length (num_samples_per_chirp
	// or micro_fft_size) is not a supported power of two.
	ErrFFTLen = errors.New("radar: unsupported FFT length")

	// ErrDSP surfaces a failure from the FFT substrate during ProcessFrame.
	ErrDSP = errors.New("radar: dsp transform failed")

	// ErrMicroFFTGrew is returned by SetConfig when MicroFFTSize would exceed
	// the value passed to New (spec.md invariant §3.2).
	ErrMicroFFTGrew = errors.New("radar: micro_fft_size cannot grow after alloc")

	// ErrFrameLength is returned by ProcessFrame when the sample slice does
	// not match NumSamplesPerChirp.
	ErrFrameLength = errors.New("radar: frame length does not match configured chirp length")
)
