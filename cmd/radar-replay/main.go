// Command radar-replay drives radar.Detector over a capture file or a
// synthesized scenario and prints each presence event along with periodic
// MaxMacro/MaxMicro snapshots. It is the CLI caller spec.md's frontend
// boundary (§4.K) exists to serve; flag parsing follows the teacher's
// src/kissutil.go style (pflag with short and long forms, a custom Usage).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/kb9vcn/gopresence/capture"
	"github.com/kb9vcn/gopresence/config"
	"github.com/kb9vcn/gopresence/eventlog"
	"github.com/kb9vcn/gopresence/internal/frontend"
	"github.com/kb9vcn/gopresence/radar"
)

func main() {
	capturePath := pflag.StringP("capture", "c", "", "Capture file to replay")
	scenario := pflag.StringP("scenario", "s", "", "Synthetic scenario to replay instead of a capture file: quiet, walkin, breathing")
	configPath := pflag.StringP("config", "C", "", "Path to gopresence.yaml (searched if omitted)")
	logDir := pflag.StringP("log-dir", "l", "", "Directory for rotating CSV event logs (overrides config file)")
	frameMs := pflag.Int64P("frame-interval-ms", "i", 10, "Synthetic frame cadence in milliseconds")
	snapshotEvery := pflag.IntP("snapshot-every", "n", 100, "Print a max-macro/max-micro snapshot every N frames")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: radar-replay [-c capture.bin | -s scenario] [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	cfgFile, err := config.Load(*configPath)
	if err != nil && *configPath != "" {
		log.Fatal("loading config", "err", err)
	}

	detCfg, err := cfgFile.Detector.ToRadarConfig()
	if err != nil {
		log.Fatal("building detector config", "err", err)
	}

	det, err := radar.New(detCfg)
	if err != nil {
		log.Fatal("constructing detector", "err", err)
	}

	dir := *logDir
	if dir == "" {
		dir = cfgFile.LogDir
	}
	var sink *eventlog.Sink
	if dir != "" {
		sink, err = eventlog.New(dir, cfgFile.LogPattern)
		if err != nil {
			log.Fatal("opening event log", "err", err)
		}
		defer sink.Close()
	}

	det.SetCallback(func(ev radar.Event) {
		rangeM := 0.0
		if ev.RangeBin >= 0 {
			rangeM = float64(ev.RangeBin) * det.BinLength()
		}
		log.Info("presence event",
			"state", ev.State.String(), "bin", ev.RangeBin, "range_m", rangeM, "t_ms", ev.TimestampMs)
		if sink != nil {
			_ = sink.Write(eventlog.Row{
				Time:     time.UnixMilli(ev.TimestampMs),
				State:    ev.State.String(),
				RangeBin: ev.RangeBin,
				RangeM:   rangeM,
				Kind:     "presence",
			})
		}
	})

	src, err := openSource(*capturePath, *scenario, detCfg, *frameMs)
	if err != nil {
		log.Fatal("opening frame source", "err", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	frames := 0
	for {
		frame, err := src.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("interrupted, shutting down")
				break
			}
			log.Info("replay finished", "frames", frames)
			break
		}

		if err := det.ProcessFrame(frame.Samples, frame.AtMs); err != nil {
			log.Error("process frame", "err", err)
			continue
		}
		frames++

		if *snapshotEvery > 0 && frames%*snapshotEvery == 0 {
			printSnapshot(det, frames)
		}
	}
}

func printSnapshot(det *radar.Detector, frames int) {
	if p, ok := det.MaxMacro(); ok {
		log.Info("max macro", "frame", frames, "score", p.Score, "bin", p.Bin)
	}
	if p, ok := det.MaxMicro(); ok {
		log.Info("max micro", "frame", frames, "score", p.Score, "bin", p.Bin)
	}
}

func openSource(capturePath, scenario string, cfg radar.Config, frameMs int64) (frontend.FrameSource, error) {
	if capturePath != "" {
		f, err := os.Open(capturePath)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", capturePath, err)
		}
		r := capture.NewReader(f)
		return frontend.NewCaptureSource(r, f, nil, frameMs), nil
	}

	frames, err := synthesizeScenario(scenario, cfg)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	go func() {
		w := capture.NewWriter(pw)
		for _, samples := range frames {
			_ = w.WriteFrame(samples)
		}
		_ = w.Flush()
		pw.Close()
	}()
	r := capture.NewReader(pr)
	return frontend.NewCaptureSource(r, pr, nil, frameMs), nil
}

func synthesizeScenario(name string, cfg radar.Config) ([][]uint16, error) {
	switch name {
	case "quiet":
		return capture.QuietRoom(1000, cfg.NumSamplesPerChirp), nil
	case "walkin":
		return capture.WalkIn(300, cfg.NumSamplesPerChirp, 5), nil
	case "breathing":
		return capture.BreathingOnly(1000, cfg.NumSamplesPerChirp, 8, 0.3, 100), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q (want quiet, walkin, or breathing)", name)
	}
}
