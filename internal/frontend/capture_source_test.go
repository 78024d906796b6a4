package frontend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kb9vcn/gopresence/capture"
)

func TestCaptureSourceDeliversFramesWithFixedCadence(t *testing.T) {
	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	assert.NoError(t, w.WriteFrame([]uint16{1, 2, 3}))
	assert.NoError(t, w.WriteFrame([]uint16{4, 5, 6}))
	assert.NoError(t, w.Flush())

	src := NewCaptureSource(capture.NewReader(&buf), nil, nil, 10)

	f0, err := src.NextFrame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), f0.AtMs)
	assert.Len(t, f0.Samples, 3)

	f1, err := src.NextFrame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(10), f1.AtMs)

	_, err = src.NextFrame(context.Background())
	assert.True(t, errors.Is(err, io.EOF))
}
