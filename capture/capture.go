// Package capture implements the binary frame-capture format of
// spec.md §6: a small fixed header followed by one little-endian uint16
// sample stream per frame. It is used by the offline replay CLI
// (cmd/radar-replay) and by tests that need deterministic recorded or
// synthetic streams instead of a live radar front end.
//
// The wire format has no analogue in the teacher repo (which has no
// capture concept); it is modeled on the teacher's own binary-framing
// style in src/kiss.go (fixed header fields read with encoding/binary,
// one frame at a time, no external serialization library) rather than
// reaching for a new dependency to serialize four integers and a sample
// array.
package capture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a gopresence capture stream.
var magic = [4]byte{'R', 'A', 'D', 'R'}

const formatVersion uint16 = 1

// Header precedes every frame in the stream.
type Header struct {
	Version     uint16
	SampleBytes uint16 // bytes per sample; always 2 (uint16) in this format
	FrameIndex  uint32
	SampleCount uint32
}

// Frame is one decoded capture frame: a header plus its raw samples,
// still in the radar's native unsigned 12-bit-in-16-bit ADC encoding.
type Frame struct {
	Header  Header
	Samples []uint16
}

// Writer appends frames to an underlying stream.
type Writer struct {
	w   *bufio.Writer
	idx uint32
}

// NewWriter wraps w for frame writing. Frame indices are assigned
// sequentially starting at 0.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame appends one frame built from samples.
func (wr *Writer) WriteFrame(samples []uint16) error {
	if _, err := wr.w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(wr.w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(wr.w, binary.LittleEndian, uint16(2)); err != nil {
		return err
	}
	if err := binary.Write(wr.w, binary.LittleEndian, wr.idx); err != nil {
		return err
	}
	if err := binary.Write(wr.w, binary.LittleEndian, uint32(len(samples))); err != nil {
		return err
	}
	for _, s := range samples {
		if err := binary.Write(wr.w, binary.LittleEndian, s); err != nil {
			return err
		}
	}
	wr.idx++
	return nil
}

// Flush pushes any buffered bytes to the underlying writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}

// Reader reads frames back out of a capture stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for frame reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadFrame decodes the next frame, returning io.EOF (unwrapped) once the
// stream is exhausted cleanly between frames.
func (rd *Reader) ReadFrame() (Frame, error) {
	var got [4]byte
	if _, err := io.ReadFull(rd.r, got[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Frame{}, fmt.Errorf("capture: truncated frame header: %w", io.EOF)
		}
		return Frame{}, err
	}
	if got != magic {
		return Frame{}, fmt.Errorf("capture: bad magic %q", got)
	}

	var h Header
	if err := binary.Read(rd.r, binary.LittleEndian, &h.Version); err != nil {
		return Frame{}, err
	}
	if err := binary.Read(rd.r, binary.LittleEndian, &h.SampleBytes); err != nil {
		return Frame{}, err
	}
	if err := binary.Read(rd.r, binary.LittleEndian, &h.FrameIndex); err != nil {
		return Frame{}, err
	}
	if err := binary.Read(rd.r, binary.LittleEndian, &h.SampleCount); err != nil {
		return Frame{}, err
	}
	if h.Version != formatVersion {
		return Frame{}, fmt.Errorf("capture: unsupported format version %d", h.Version)
	}
	if h.SampleBytes != 2 {
		return Frame{}, fmt.Errorf("capture: unsupported sample width %d", h.SampleBytes)
	}

	samples := make([]uint16, h.SampleCount)
	if err := binary.Read(rd.r, binary.LittleEndian, samples); err != nil {
		return Frame{}, err
	}
	return Frame{Header: h, Samples: samples}, nil
}

// ToFloat32 converts a raw uint16 ADC sample stream to the roughly
// [-0.5, 0.5]-ranged float32 samples radar.Detector.ProcessFrame expects,
// treating the ADC as 12-bit and centering around its midpoint.
func ToFloat32(samples []uint16) []float32 {
	out := make([]float32, len(samples))
	const full = 4096.0
	for i, s := range samples {
		out[i] = float32(s)/full - 0.5
	}
	return out
}
