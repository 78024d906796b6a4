package radar

// processMacro implements spec.md §4.E, the macro (gross-motion) detector:
// frame-to-frame difference against a retained baseline, intensity
// weighting, bandpass compensation, hit-count confirmation, and reporting.
//
// macroSource is either d.macroFFTBuffer or d.bandpassMacroFFT, chosen by
// the caller depending on MacroFFTBandpassFilterEnabled.
func (d *Detector) processMacro(macroSource []complex128, nowMs int64) {
	cfg := &d.config
	d.LastCompareSkipped = false

	if cfg.Mode == ModeMicroOnly {
		return
	}
	if d.macroLastCompareMs+cfg.MacroCompareIntervalMs > nowMs {
		return
	}
	if nowMs <= d.bandpassInitialTimeMs {
		return
	}

	hit := false
	if d.macroLastCompareMs+2*cfg.MacroCompareIntervalMs >= nowMs {
		for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
			diff := macroSource[i] - d.lastMacroCompare[i]
			macro := cmplxAbs(diff) * d.rangeIntensityWin[i]
			if cfg.MacroFFTBandpassFilterEnabled {
				macro *= 0.5 / 0.45
			}
			if macro >= d.maxMacro {
				d.maxMacro = macro
				d.maxMacroIdx = i
			}
			if macro >= cfg.MacroThreshold {
				d.macroDetectTimestamps[i] = nowMs + cfg.MacroMovementValidityMs
				d.macroDetectConfidences[i] = macro - cfg.MacroThreshold
				hit = true
			}
		}
	} else {
		d.LastCompareSkipped = true
	}

	if hit {
		d.macroMovementHitCount++
	} else {
		d.macroMovementHitCount = 0
	}
	copy(d.lastMacroCompare, macroSource)

	macroMovementIdx := -1
	if d.macroMovementHitCount >= cfg.MacroMovementConfirmations {
		count := 0
		for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
			if nowMs <= d.macroDetectTimestamps[i] {
				count++
			}
		}
		if count >= cfg.MacroTriggerRange || d.state != Absence {
			for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
				if nowMs <= d.macroDetectTimestamps[i] {
					macroMovementIdx = i
					break
				}
			}
		}
	}
	d.macroLastCompareMs = nowMs

	if macroMovementIdx != d.lastMacroReportedIdx {
		if macroMovementIdx >= 0 {
			d.emit(Event{
				TimestampMs: d.macroDetectTimestamps[macroMovementIdx] - cfg.MacroMovementValidityMs,
				RangeBin:    macroMovementIdx,
				State:       MacroPresence,
			})
			d.state = MacroPresence
			d.lastReportedIdx = macroMovementIdx
		} else {
			if cfg.Mode == ModeMacroOnly {
				d.switchToAbsence(nowMs)
			} else {
				d.state = MicroPresence
				d.lastMicroReportedIdx = -1
				for i := cfg.MinRangeBin; i <= cfg.MaxRangeBin; i++ {
					if i >= d.lastMacroReportedIdx {
						d.microDetectTimestamps[i] = nowMs + cfg.MicroMovementValidityMs
					} else {
						d.microDetectTimestamps[i] = 0
					}
				}
			}
			d.microCalcColIdx = cfg.MinRangeBin
		}
		d.lastMacroReportedIdx = macroMovementIdx
	}
}
