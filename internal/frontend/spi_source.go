package frontend

import (
	"context"
	"fmt"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// SPIFrameConfig describes the fixed transfer shape used to pull one raw
// chirp out of a BGT60TR13C-class radar front end over SPI. The actual
// register protocol (FIFO addressing, burst-read framing, GSR0 status
// word) is out of spec's scope (spec.md §9 Non-goals); this adapter only
// issues transfers of the right size at the right clock rate so a real
// driver can be dropped in behind the same FrameSource interface.
type SPIFrameConfig struct {
	BusName            string // spireg.Open selector, "" for the first available bus
	ClockHz            int64
	Mode               spi.Mode
	BitsPerWord        int
	NumSamplesPerChirp int
	BytesPerSample     int // 2 for the sensor's 12-bit-in-16-bit ADC words
}

// DefaultSPIFrameConfig matches the BGT60TR13C's documented SPI transfer
// shape for a 128-sample chirp.
func DefaultSPIFrameConfig() SPIFrameConfig {
	return SPIFrameConfig{
		ClockHz:            8_000_000,
		Mode:               spi.Mode0,
		BitsPerWord:        8,
		NumSamplesPerChirp: 128,
		BytesPerSample:     2,
	}
}

// SPISource is a FrameSource backed by a real periph.io SPI bus. Each call
// to NextFrame issues a single burst read sized to one chirp; it does not
// itself wait for FIFO-full — pair it with an InterruptLine and wait on
// that before calling NextFrame.
type SPISource struct {
	cfg   SPIFrameConfig
	port  spi.PortCloser
	conn  spi.Conn
	clock Clock
}

// NewSPISource opens cfg.BusName (or the first available bus, if empty)
// and configures the transfer mode.
func NewSPISource(cfg SPIFrameConfig, clock Clock) (*SPISource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("frontend: periph host init: %w", err)
	}

	port, err := spireg.Open(cfg.BusName)
	if err != nil {
		return nil, fmt.Errorf("frontend: open spi bus %q: %w", cfg.BusName, err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.ClockHz)*physic.Hertz, cfg.Mode, cfg.BitsPerWord)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("frontend: configure spi connection: %w", err)
	}

	return &SPISource{cfg: cfg, port: port, conn: conn, clock: clock}, nil
}

// NextFrame issues one SPI burst read sized for cfg.NumSamplesPerChirp
// samples and decodes it into float32 samples via capture.ToFloat32's
// ADC-centering convention.
func (s *SPISource) NextFrame(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	n := s.cfg.NumSamplesPerChirp * s.cfg.BytesPerSample
	write := make([]byte, n)
	read := make([]byte, n)
	if err := s.conn.Tx(write, read); err != nil {
		return Frame{}, fmt.Errorf("frontend: spi transfer: %w", err)
	}

	samples := make([]float32, s.cfg.NumSamplesPerChirp)
	for i := range samples {
		raw := uint16(read[i*2]) | uint16(read[i*2+1])<<8
		samples[i] = float32(raw)/4096.0 - 0.5
	}

	return Frame{Samples: samples, AtMs: nowMs(s.clock)}, nil
}

// Close releases the underlying SPI port.
func (s *SPISource) Close() error {
	return s.port.Close()
}
