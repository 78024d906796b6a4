package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	frames := [][]uint16{
		{1, 2, 3, 4},
		{100, 200, 300, 400, 500},
		{},
	}
	for _, f := range frames {
		assert.NoError(t, w.WriteFrame(f))
	}
	assert.NoError(t, w.Flush())

	r := NewReader(&buf)
	for i, want := range frames {
		got, err := r.ReadFrame()
		assert.NoError(t, err)
		assert.Equal(t, uint32(i), got.Header.FrameIndex)
		assert.Equal(t, uint32(len(want)), got.Header.SampleCount)
		assert.Equal(t, want, got.Samples)
	}

	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestToFloat32Centering(t *testing.T) {
	out := ToFloat32([]uint16{0, 2048, 4096})
	assert.InDelta(t, -0.5, out[0], 1e-6)
	assert.InDelta(t, 0.0, out[1], 1e-6)
	assert.InDelta(t, 0.5, out[2], 1e-6)
}

func TestScenarioGeneratorsProduceExpectedFrameCounts(t *testing.T) {
	assert.Len(t, QuietRoom(1000, 128), 1000)
	assert.Len(t, WalkIn(300, 128, 5), 300)
	assert.Len(t, BreathingOnly(1000, 128, 8, 0.3, 100), 1000)
}
