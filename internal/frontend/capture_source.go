package frontend

import (
	"context"
	"errors"
	"io"

	"github.com/kb9vcn/gopresence/capture"
)

// CaptureSource plays back a capture.Reader as a FrameSource, using Clock
// to stamp each frame as it is delivered (or, if stepMs is non-zero, a
// synthetic cadence of stepMs per delivered frame starting at 0). It backs
// cmd/radar-replay.
type CaptureSource struct {
	r        *capture.Reader
	closer   io.Closer
	clock    Clock
	stepMs   int64 // if non-zero, timestamps advance by stepMs per frame instead of using clock
	nextTime int64
}

// NewCaptureSource wraps r (with an optional closer for the underlying
// file). If stepMs is non-zero, frame timestamps are synthesized at a
// fixed cadence starting from 0 instead of sampling clock.
func NewCaptureSource(r *capture.Reader, closer io.Closer, clock Clock, stepMs int64) *CaptureSource {
	return &CaptureSource{r: r, closer: closer, clock: clock, stepMs: stepMs}
}

// NextFrame decodes and returns the next frame in the stream.
func (c *CaptureSource) NextFrame(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	f, err := c.r.ReadFrame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, err
	}

	var at int64
	if c.stepMs != 0 {
		at = c.nextTime
		c.nextTime += c.stepMs
	} else {
		at = nowMs(c.clock)
	}

	return Frame{Samples: capture.ToFloat32(f.Samples), AtMs: at}, nil
}

// Close releases the underlying stream, if one was supplied.
func (c *CaptureSource) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
