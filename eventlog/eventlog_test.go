package eventlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteCreatesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(dir, "")
	assert.NoError(t, err)

	day := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.NoError(t, sink.Write(Row{Time: day, State: "MACRO_PRESENCE", RangeBin: 5, RangeM: 0.5, Kind: "presence"}))
	assert.NoError(t, sink.Write(Row{Time: day.Add(time.Second), State: "ABSENCE", RangeBin: -1, Kind: "presence"}))
	assert.NoError(t, sink.Close())

	data, err := os.ReadFile(filepath.Join(dir, "2026-01-02.csv"))
	assert.NoError(t, err)

	lines := splitLines(string(data))
	assert.Equal(t, header, lines[0])
	assert.Len(t, lines, 3) // header + 2 rows
}

func TestWriteRotatesOnDayChange(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(dir, "")
	assert.NoError(t, err)
	defer sink.Close()

	day1 := time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	assert.NoError(t, sink.Write(Row{Time: day1, State: "ABSENCE", RangeBin: -1}))
	assert.NoError(t, sink.Write(Row{Time: day2, State: "ABSENCE", RangeBin: -1}))

	_, err = os.Stat(filepath.Join(dir, "2026-01-02.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "2026-01-03.csv"))
	assert.NoError(t, err)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
