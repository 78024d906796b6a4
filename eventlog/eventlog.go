// Package eventlog writes presence and AoA events to a CSV file, rotated
// daily (spec.md §4.M). It is adapted from the teacher's src/log.go
// (log_init/log_write/log_term): open-for-append on first write, write a
// header only when the file didn't already exist, close and reopen when
// the rotated name changes, keep the descriptor open across writes rather
// than open/close per record.
//
// Daily names are built with lestrrat-go/strftime (the teacher's own
// dependency, used the same way in src/xmit.go for its audio-timestamp
// format string) instead of a literal time.Format layout, so an operator
// can override the rotation pattern via Config without code changes.
package eventlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

const defaultPattern = "%Y-%m-%d.csv"

const header = "utime,isotime,state,range_bin,range_m,kind"

// Sink is a daily-rotating CSV event log.
type Sink struct {
	dir     string
	pattern *strftime.Strftime

	fp       *os.File
	openName string
}

// New opens a Sink rooted at dir, creating dir if it does not exist.
// pattern is an strftime layout for the per-day file name; an empty
// pattern uses defaultPattern.
func New(dir, pattern string) (*Sink, error) {
	if pattern == "" {
		pattern = defaultPattern
	}
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("eventlog: bad rotation pattern %q: %w", pattern, err)
	}

	if stat, statErr := os.Stat(dir); statErr != nil {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return nil, fmt.Errorf("eventlog: cannot create log directory %q: %w", dir, mkErr)
		}
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("eventlog: %q exists and is not a directory", dir)
	}

	return &Sink{dir: dir, pattern: f}, nil
}

// currentName returns the rotated file name for now.
func (s *Sink) currentName(now time.Time) string {
	return s.pattern.FormatString(now)
}

func (s *Sink) rotate(now time.Time) error {
	name := s.currentName(now)
	if s.fp != nil && name == s.openName {
		return nil
	}
	if s.fp != nil {
		if err := s.fp.Close(); err != nil {
			log.Warn("eventlog: close on rotate failed", "file", s.openName, "err", err)
		}
		s.fp = nil
	}

	fullPath := filepath.Join(s.dir, name)
	_, statErr := os.Stat(fullPath)
	alreadyThere := statErr == nil

	f, err := os.OpenFile(fullPath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("eventlog: open %q: %w", fullPath, err)
	}
	if !alreadyThere {
		if _, err := fmt.Fprintln(f, header); err != nil {
			f.Close()
			return fmt.Errorf("eventlog: write header to %q: %w", fullPath, err)
		}
	}

	s.fp = f
	s.openName = name
	log.Info("eventlog: opened log file", "path", fullPath)
	return nil
}

// Row is one logged record: a presence-state transition or an AoA sample.
type Row struct {
	Time     time.Time
	State    string
	RangeBin int
	RangeM   float64
	Kind     string // "presence" or "aoa"
}

// Write appends r to the log, rotating the underlying file first if the
// day has changed.
func (s *Sink) Write(r Row) error {
	if err := s.rotate(r.Time); err != nil {
		return err
	}

	w := csv.NewWriter(s.fp)
	record := []string{
		fmt.Sprintf("%d", r.Time.Unix()),
		r.Time.UTC().Format("2006-01-02T15:04:05Z"),
		r.State,
		fmt.Sprintf("%d", r.RangeBin),
		fmt.Sprintf("%.3f", r.RangeM),
		r.Kind,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("eventlog: csv write: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Close closes the currently open log file, if any.
func (s *Sink) Close() error {
	if s.fp == nil {
		return nil
	}
	err := s.fp.Close()
	s.fp = nil
	s.openName = ""
	return err
}
