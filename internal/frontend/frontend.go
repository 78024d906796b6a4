// Package frontend defines the boundary between the detection pipeline
// and the physical radar sensor: a FrameSource that yields raw ADC frames
// and an InterruptLine that reports "FIFO full" edge events. Neither the
// SPI register protocol of the BGT60TR13C nor the embedded CLI/task wiring
// that drives it is in scope (spec.md §9 Non-goals) — these types exist
// only so cmd/radar-replay has a realistic caller for radar.Detector,
// per spec.md's description of the frontend as "an external collaborator
// described only at its interface" (spec.md §6).
package frontend

import (
	"context"
	"time"
)

// Frame is one raw ADC chirp plus the monotonic timestamp it was sampled
// at, in the form radar.Detector.ProcessFrame expects.
type Frame struct {
	Samples []float32
	AtMs    int64
}

// FrameSource yields successive radar frames. NextFrame blocks until a
// frame is available, ctx is canceled, or the source is exhausted (in
// which case it returns io.EOF-wrapped errors — capture-backed sources do
// this at end of file; live sensor sources never do).
type FrameSource interface {
	NextFrame(ctx context.Context) (Frame, error)
	Close() error
}

// InterruptLine reports edges of the sensor's "chirp FIFO full" GPIO line.
// Wait blocks until an edge is observed or ctx is canceled.
type InterruptLine interface {
	Wait(ctx context.Context) error
	Close() error
}

// Clock abstracts time.Now for frame timestamping so tests can supply a
// deterministic source instead of the wall clock.
type Clock func() time.Time

// WallClock is the default Clock.
func WallClock() time.Time { return time.Now() }

func nowMs(clock Clock) int64 {
	if clock == nil {
		clock = WallClock
	}
	return clock().UnixMilli()
}
