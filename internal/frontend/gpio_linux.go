//go:build linux

package frontend

import (
	"context"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOInterruptLine watches a real gpiochip line for the radar sensor's
// "chirp FIFO full" interrupt, using the Linux gpiochar character device
// (no sysfs, no polling) via go-gpiocdev.
type GPIOInterruptLine struct {
	line   *gpiocdev.Line
	events chan struct{}
}

// NewGPIOInterruptLine requests offset on chip (e.g. "gpiochip0") as an
// input with both-edge detection. At most one edge is held pending; edges
// that arrive while one is already pending are merged into it.
func NewGPIOInterruptLine(chip string, offset int) (*GPIOInterruptLine, error) {
	events := make(chan struct{}, 1)

	handler := func(evt gpiocdev.LineEvent) {
		select {
		case events <- struct{}{}:
		default:
		}
	}

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(handler),
	)
	if err != nil {
		return nil, fmt.Errorf("frontend: request gpio line %s:%d: %w", chip, offset, err)
	}

	return &GPIOInterruptLine{line: line, events: events}, nil
}

// Wait blocks until an edge has been observed or ctx is canceled.
func (g *GPIOInterruptLine) Wait(ctx context.Context) error {
	select {
	case <-g.events:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the underlying gpiochip line.
func (g *GPIOInterruptLine) Close() error {
	return g.line.Close()
}
