// Package progress redraws a one-line elapsed time readout on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"gameclock/internal/accumulator"
)

type Progress struct {
	sometimes *rate.Sometimes
	stopped   atomic.Bool
	quiet     bool
	output    io.Writer
	mu        sync.Mutex
}

// NewProgress redraws at most once per interval.
func NewProgress(interval time.Duration, quiet bool) *Progress {
	return &Progress{
		sometimes: &rate.Sometimes{Interval: interval},
		quiet:     quiet,
		output:    os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// Update redraws the line from s unless the last redraw was too recent.
func (p *Progress) Update(s accumulator.Snapshot) {
	if p.quiet || p.stopped.Load() {
		return
	}
	p.sometimes.Do(func() { p.printProgress(s) })
}

func (p *Progress) printProgress(s accumulator.Snapshot) {
	state := "paused"
	if s.Running {
		state = "running"
	}
	c := s.Components
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K[%s:%s:%s.%s] %s | mode: %s | scale: %.2fx\r",
		c.HoursPadded(), c.MinutesPadded(), c.SecondsPadded(), c.MillisecondsPadded(),
		state, s.Mode, s.EffectiveScale)
	p.mu.Unlock()
}

func (p *Progress) Stop() {
	if p.quiet || p.stopped.Swap(true) {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K")
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K"+format+"\n", args...)
	p.mu.Unlock()
}
