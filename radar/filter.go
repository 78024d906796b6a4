package radar

// Band-pass (10-35 Hz on a 100 Hz slow-time axis, DC-constrained) FIR
// coefficients for the macro pre-filter, 65 taps (spec.md §4.C). Generated
// offline with a `fir1(64, [low bnd], 'DC-1')`-style design, carried over
// verbatim from the reference implementation's coefficient table.
var bandpassCoeffs = []float64{
	-0.000672018944688787, 5.40997750800323e-05, -0.00170551007050673, 0.000706931294401583,
	0.000529718080087782, 0.00403359866465874, 0.00102443397277923, 0.00234848093688213,
	-0.00194992073010673, 0.00451365295988384, 0.00312574092180467, 0.00888191214923986,
	-0.00340548841703134, -0.00434494380465395, -0.0153910491204704, -0.00133041100723547,
	-0.00517641595111685, 0.00200054539528286, -0.0241426155178683, -0.0230852875573157,
	-0.0293254372480552, 0.0105956968865953, 0.0175013648649183, 0.0306608940135099,
	-0.00856346834860387, 0.00160778144085906, 0.0222545709144638, 0.112213549580022,
	0.136465963717548, 0.110216333677660, -0.0448122804532963, -0.174898778170997,
	0.740136712192538, -0.174898778170997, -0.0448122804532963, 0.110216333677660,
	0.136465963717548, 0.112213549580022, 0.0222545709144638, 0.00160778144085906,
	-0.00856346834860387, 0.0306608940135099, 0.0175013648649183, 0.0105956968865953,
	-0.0293254372480552, -0.0230852875573157, -0.0241426155178683, 0.00200054539528286,
	-0.00517641595111685, -0.00133041100723547, -0.0153910491204704, -0.00434494380465395,
	-0.00340548841703134, 0.00888191214923986, 0.00312574092180467, 0.00451365295988384,
	-0.00194992073010673, 0.00234848093688213, 0.00102443397277923, 0.00403359866465874,
	0.000529718080087782, 0.000706931294401583, -0.00170551007050673, 5.40997750800323e-05,
	-0.000672018944688787,
}

// Low-pass (cutoff 0.025 of the sample rate, 2.5 Hz on a 100 Hz slow-time
// axis) FIR coefficients for the 129-tap, factor-8 decimator used by the
// micro pre-filter (spec.md §4.D), designed with `fir1(128, 5/100)`.
var decimationCoeffs = []float64{
	-0.0002335706, -0.0001845369, -0.0001302661, -0.0000692792, 0.0000000000,
	0.0000790508, 0.0001690467, 0.0002706434, 0.0003837746, 0.0005074704,
	0.0006397080, 0.0007773074, 0.0009158812, 0.0010498472, 0.0011725089,
	0.0012762062, 0.0013525367, 0.0013926445, 0.0013875686, 0.0013286427,
	0.0012079324, 0.0010186962, 0.0007558520, 0.0004164310, 0.0000000000,
	-0.0004909674, -0.0010507895, -0.0016703624, -0.0023370475, -0.0030346730,
	-0.0037436590, -0.0044412689, -0.0051019897, -0.0056980354, -0.0061999662,
	-0.0065774088, -0.0067998622, -0.0068375662, -0.0066624096, -0.0062488501,
	-0.0055748192, -0.0046225811, -0.0033795172, -0.0018388104, 0.0000000000,
	0.0021306116, 0.0045397210, 0.0072069682, 0.0101050712, 0.0132001547,
	0.0164522689, 0.0198160911, 0.0232417935, 0.0266760581, 0.0300632143,
	0.0333464689, 0.0364691958, 0.0393762517, 0.0420152803, 0.0443379694,
	0.0463012239, 0.0478682239, 0.0490093339, 0.0497028404, 0.0499354938,
	0.0497028404, 0.0490093339, 0.0478682239, 0.0463012239, 0.0443379694,
	0.0420152803, 0.0393762517, 0.0364691958, 0.0333464689, 0.0300632143,
	0.0266760581, 0.0232417935, 0.0198160911, 0.0164522689, 0.0132001547,
	0.0101050712, 0.0072069682, 0.0045397210, 0.0021306116, 0.0000000000,
	-0.0018388104, -0.0033795172, -0.0046225811, -0.0055748192, -0.0062488501,
	-0.0066624096, -0.0068375662, -0.0067998622, -0.0065774088, -0.0061999662,
	-0.0056980354, -0.0051019897, -0.0044412689, -0.0037436590, -0.0030346730,
	-0.0023370475, -0.0016703624, -0.0010507895, -0.0004909674, 0.0000000000,
	0.0004164310, 0.0007558520, 0.0010186962, 0.0012079324, 0.0013286427,
	0.0013875686, 0.0013926445, 0.0013525367, 0.0012762062, 0.0011725089,
	0.0010498472, 0.0009158812, 0.0007773074, 0.0006397080, 0.0005074704,
	0.0003837746, 0.0002706434, 0.0001690467, 0.0000790508, 0.0000000000,
	-0.0000692792, -0.0001302661, -0.0001845369, -0.0002335706,
}

const decimationFactor = 8

// firFilter is a direct-form FIR with persistent state, one real sample in
// and one real sample out per step call — the Go stand-in for the CMSIS
// arm_fir_instance_f32/arm_fir_f32 pair of spec.md §4.C.
type firFilter struct {
	coeffs  []float64
	history []float64
	pos     int
}

func newFIRFilter(coeffs []float64) firFilter {
	return firFilter{coeffs: coeffs, history: make([]float64, len(coeffs))}
}

func (f *firFilter) reset() {
	for i := range f.history {
		f.history[i] = 0
	}
	f.pos = 0
}

func (f *firFilter) step(x float64) float64 {
	f.history[f.pos] = x
	n := len(f.coeffs)
	var sum float64
	idx := f.pos
	for i := 0; i < n; i++ {
		sum += f.coeffs[i] * f.history[idx]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}
	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return sum
}

// decimateFIR is a block FIR decimator: it consumes decimationFactor raw
// samples and produces one filtered, decimated output (spec.md §4.D).
type decimateFIR struct {
	fir firFilter
}

func newDecimateFIR() decimateFIR {
	return decimateFIR{fir: newFIRFilter(decimationCoeffs)}
}

func (d *decimateFIR) reset() {
	d.fir.reset()
}

// decimate feeds block (length decimationFactor) through the filter and
// returns the single decimated output sample.
func (d *decimateFIR) decimate(block []float64) float64 {
	var y float64
	for _, x := range block {
		y = d.fir.step(x)
	}
	return y
}

// complexFIR is a pair of independent real FIRs applied to the real and
// imaginary parts of a complex-valued single-sample stream, mirroring the
// "two independent state vectors (real, imaginary)" of spec.md §3.
type complexFIR struct {
	re firFilter
	im firFilter
}

func newComplexFIR(coeffs []float64) complexFIR {
	return complexFIR{re: newFIRFilter(coeffs), im: newFIRFilter(coeffs)}
}

func (c *complexFIR) reset() {
	c.re.reset()
	c.im.reset()
}

func (c *complexFIR) step(x complex128) complex128 {
	return complex(c.re.step(real(x)), c.im.step(imag(x)))
}

// complexDecimateFIR decimates a complex-valued stream by decimationFactor.
type complexDecimateFIR struct {
	re decimateFIR
	im decimateFIR
}

func newComplexDecimateFIR() complexDecimateFIR {
	return complexDecimateFIR{re: newDecimateFIR(), im: newDecimateFIR()}
}

func (c *complexDecimateFIR) reset() {
	c.re.reset()
	c.im.reset()
}

func (c *complexDecimateFIR) decimate(block []complex128) complex128 {
	reBlock := make([]float64, len(block))
	imBlock := make([]float64, len(block))
	for i, v := range block {
		reBlock[i] = real(v)
		imBlock[i] = imag(v)
	}
	return complex(c.re.decimate(reBlock), c.im.decimate(imBlock))
}
