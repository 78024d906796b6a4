package radar

// timestampAt reads ts[idx] but treats a negative idx (the "nothing
// reported yet" sentinel, -1) as never-hot instead of panicking. The
// reference implementation reads one element before the array in that
// case, which is undefined behavior in C; this is the one place the Go
// port deliberately diverges to stay memory-safe (spec.md §9 open
// questions — no bit-exact compatibility is required).
func timestampAt(ts []int64, idx int) int64 {
	if idx < 0 {
		return 0
	}
	return ts[idx]
}

// updateHistoryRing feeds the current (unfiltered) macro spectrum into the
// slow-time history ring, optionally through the factor-8 decimation FIR
// bank, and marks the ring ready once micro_fft_size rows have accumulated
// (spec.md §4.D).
func (d *Detector) updateHistoryRing() {
	cfg := &d.config
	w := d.maxRangeLimitIdx

	if cfg.MicroFFTDecimationEnabled {
		row := d.microDecimBuffer[d.microDecimWriteRowIdx*w : d.microDecimWriteRowIdx*w+w]
		copy(row, d.macroFFTBuffer[:w])
		d.microDecimWriteRowIdx++
		if d.microDecimWriteRowIdx == decimationFactor {
			d.microDecimWriteRowIdx = 0
			block := make([]complex128, decimationFactor)
			for i := 0; i < w; i++ {
				for j := 0; j < decimationFactor; j++ {
					block[j] = d.microDecimBuffer[j*w+i]
				}
				out := d.microDecimFIR[i].decimate(block)
				d.microFFTBuffer[d.microWriteRowIdx*w+i] = out
			}
			d.microWriteRowIdx++
		}
	} else {
		row := d.microFFTBuffer[d.microWriteRowIdx*w : d.microWriteRowIdx*w+w]
		copy(row, d.macroFFTBuffer[:w])
		d.microWriteRowIdx++
	}

	if d.microWriteRowIdx == cfg.MicroFFTSize {
		d.microFFTReady = true
		d.microWriteRowIdx = 0
		d.microCalcColIdx = cfg.MinRangeBin
	}
}

// processMicro performs one round-robin column step of the slow-time
// Doppler analysis: mean removal, FFT, low-frequency energy score, and
// threshold/timestamp bookkeeping (spec.md §4.F steps 1-5).
func (d *Detector) processMicro(nowMs int64) {
	cfg := &d.config
	w := d.maxRangeLimitIdx
	size := cfg.MicroFFTSize
	col := d.microFFTColBuffer[:size]

	var mean complex128
	for i := 0; i < size; i++ {
		row := (d.microWriteRowIdx + i) % size
		v := d.microFFTBuffer[row*w+d.microCalcColIdx]
		col[i] = v
		mean += v
	}
	meanVal := complex(real(mean)/float64(size), imag(mean)/float64(size))
	for i := range col {
		col[i] -= meanVal
	}

	complexFFT(col)

	var score float64
	for i := 1; i <= cfg.MicroMovementCompareIdx && i < size; i++ {
		score += cmplxAbs(col[i])
	}

	if score >= d.maxMicro {
		d.maxMicro = score
		d.maxMicroIdx = d.microCalcColIdx
	}

	confidence := score - cfg.MicroThreshold
	if confidence >= 0 {
		d.microDetectTimestamps[d.microCalcColIdx] = nowMs + cfg.MicroMovementValidityMs
		d.microDetectDistances[d.microCalcColIdx] = confidence
		d.state = MicroPresence
	}

	d.microCalcColIdx++
	if d.microCalcColIdx > cfg.MaxRangeBin {
		d.microCalcColIdx = cfg.MinRangeBin
		d.microAllCalc = true
	}
}

// reportMicro selects which (if any) range bin the micro track currently
// reports, following one of two regimes depending on whether decimation is
// enabled, and emits an event on change (spec.md §4.F steps 6-7, §4.G).
func (d *Detector) reportMicro(nowMs int64) {
	cfg := &d.config
	microMovementIdx := -1

	if cfg.MicroFFTDecimationEnabled {
		allPreviousExpired := true
		for i := cfg.MinRangeBin; i <= d.lastReportedIdx; i++ {
			if nowMs <= d.macroDetectTimestamps[i] {
				allPreviousExpired = false
				break
			}
		}

		macroNotDisplayed := false
		if allPreviousExpired {
			for i := d.lastReportedIdx + 1; i <= cfg.MaxRangeBin; i++ {
				if nowMs <= d.macroDetectTimestamps[i] {
					microMovementIdx = i
					macroNotDisplayed = true
					break
				}
			}
		}

		if !macroNotDisplayed && nowMs <= timestampAt(d.microDetectTimestamps, d.lastReportedIdx) {
			microMovementIdx = d.lastReportedIdx
		} else if !macroNotDisplayed && d.microAllCalc {
			maxConfidence := 0.0
			lastTs := timestampAt(d.microDetectTimestamps, d.lastReportedIdx)
			for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
				if nowMs <= d.microDetectTimestamps[i] &&
					d.microDetectDistances[i] > maxConfidence &&
					d.microDetectTimestamps[i]-lastTs > 2000 {
					microMovementIdx = i
					maxConfidence = d.microDetectDistances[i]
				}
			}
		}
	} else {
		for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
			if nowMs <= d.microDetectTimestamps[i] {
				microMovementIdx = i
				break
			}
		}
	}

	if microMovementIdx != d.lastMicroReportedIdx {
		d.lastMicroReportedIdx = microMovementIdx
		if microMovementIdx >= 0 {
			d.emit(Event{
				TimestampMs: d.microDetectTimestamps[microMovementIdx] - cfg.MicroMovementValidityMs,
				RangeBin:    microMovementIdx,
				State:       MicroPresence,
			})
			d.lastReportedIdx = microMovementIdx
		}
	}

	if microMovementIdx == -1 && d.state == MicroPresence && d.microAllCalc {
		d.switchToAbsence(nowMs)
	}
}
