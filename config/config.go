// Package config loads the host-tool-facing YAML configuration consumed
// by cmd/radar-replay: detector tuning, the event log directory and file
// name pattern, and a capture file path. It is distinct from
// radar.Config, which is the wire-level detector tuning struct the spec's
// original C API exposes directly; this package is the outer file format
// the command-line tools read before building one.
//
// Modeled on the teacher's src/deviceid.go: a fixed, OS-appropriate search
// path tried in order, gopkg.in/yaml.v3 for decoding, and a clear "nothing
// found, here's what we tried" error rather than a panic.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kb9vcn/gopresence/radar"
)

// searchLocations mirrors deviceid.go's search_locations: current
// directory first, then a couple of conventional install locations.
var searchLocations = []string{
	"gopresence.yaml",
	"./config/gopresence.yaml",
	"/usr/local/etc/gopresence/gopresence.yaml",
	"/etc/gopresence/gopresence.yaml",
}

// Detector mirrors the fields of radar.Config that are worth exposing in
// the host-tool file format; zero-valued fields fall back to
// radar.DefaultConfig().
type Detector struct {
	BandwidthHz                   float64 `yaml:"bandwidth_hz"`
	NumSamplesPerChirp            int     `yaml:"num_samples_per_chirp"`
	MicroFFTSize                  int     `yaml:"micro_fft_size"`
	MicroFFTDecimationEnabled     bool    `yaml:"micro_fft_decimation_enabled"`
	MacroThreshold                float64 `yaml:"macro_threshold"`
	MicroThreshold                float64 `yaml:"micro_threshold"`
	MinRangeBin                   int     `yaml:"min_range_bin"`
	MaxRangeBin                   int     `yaml:"max_range_bin"`
	Mode                          string  `yaml:"mode"`
	MacroFFTBandpassFilterEnabled bool    `yaml:"macro_fft_bandpass_filter_enabled"`
}

// File is the top-level YAML document shape.
type File struct {
	Detector    Detector `yaml:"detector"`
	LogDir      string   `yaml:"log_dir"`
	LogPattern  string   `yaml:"log_pattern"`
	CapturePath string   `yaml:"capture_path"`
}

var modeNames = map[string]radar.Mode{
	"macro_only":      radar.ModeMacroOnly,
	"micro_only":      radar.ModeMicroOnly,
	"micro_if_macro":  radar.ModeMicroIfMacro,
	"micro_and_macro": radar.ModeMicroAndMacro,
}

// ToRadarConfig overlays non-zero fields of d onto radar.DefaultConfig().
func (d Detector) ToRadarConfig() (radar.Config, error) {
	cfg := radar.DefaultConfig()

	if d.BandwidthHz != 0 {
		cfg.BandwidthHz = d.BandwidthHz
	}
	if d.NumSamplesPerChirp != 0 {
		cfg.NumSamplesPerChirp = d.NumSamplesPerChirp
	}
	if d.MicroFFTSize != 0 {
		cfg.MicroFFTSize = d.MicroFFTSize
	}
	cfg.MicroFFTDecimationEnabled = d.MicroFFTDecimationEnabled
	if d.MacroThreshold != 0 {
		cfg.MacroThreshold = d.MacroThreshold
	}
	if d.MicroThreshold != 0 {
		cfg.MicroThreshold = d.MicroThreshold
	}
	if d.MinRangeBin != 0 {
		cfg.MinRangeBin = d.MinRangeBin
	}
	if d.MaxRangeBin != 0 {
		cfg.MaxRangeBin = d.MaxRangeBin
	}
	cfg.MacroFFTBandpassFilterEnabled = d.MacroFFTBandpassFilterEnabled
	if d.Mode != "" {
		m, ok := modeNames[d.Mode]
		if !ok {
			return radar.Config{}, fmt.Errorf("config: unknown mode %q", d.Mode)
		}
		cfg.Mode = m
	}

	return cfg, nil
}

// Load searches searchLocations in order and decodes the first file found.
// An explicit path, if non-empty, is tried first and any error from
// reading it is returned directly rather than falling through to search.
func Load(explicitPath string) (File, error) {
	var f File

	if explicitPath != "" {
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return f, fmt.Errorf("config: reading %q: %w", explicitPath, err)
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return f, fmt.Errorf("config: parsing %q: %w", explicitPath, err)
		}
		return f, nil
	}

	for _, loc := range searchLocations {
		data, err := os.ReadFile(loc)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return f, fmt.Errorf("config: parsing %q: %w", loc, err)
		}
		return f, nil
	}

	return f, fmt.Errorf("config: no config file found in %v", searchLocations)
}
