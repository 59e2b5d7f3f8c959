// Package report renders accumulator snapshots for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gameclock/internal/accumulator"
)

// Options controls how the clock string is rendered.
type Options struct {
	IncludeMilliseconds bool
	Delimiter           string
	Steps               int64
}

// FormatText writes a snapshot in human-readable format.
func FormatText(w io.Writer, s accumulator.Snapshot, opts Options) {
	state := "paused"
	if s.Running {
		state = "running"
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Game Clock - Elapsed Time")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Elapsed:        %s\n", s.Formatted(opts.IncludeMilliseconds, delimiter(opts)))
	fmt.Fprintf(w, "State:          %s (%s mode)\n", state, s.Mode)
	fmt.Fprintf(w, "Scale:          %gx (global %g)\n", s.EffectiveScale, s.GlobalScale)
	if opts.Steps > 0 {
		fmt.Fprintf(w, "Steps:          %s\n", formatNumber(opts.Steps))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Units:")
	fmt.Fprintf(w, "  Microseconds: %.0f\n", s.Microseconds)
	fmt.Fprintf(w, "  Milliseconds: %.3f\n", s.Milliseconds())
	fmt.Fprintf(w, "  Seconds:      %.6f\n", s.Seconds())
	fmt.Fprintf(w, "  Minutes:      %.6f\n", s.Minutes())
	fmt.Fprintf(w, "  Hours:        %.6f\n", s.Hours())
	fmt.Fprintf(w, "  Days:         %.6f\n", s.Days())
}

// FormatJSON writes a snapshot in JSON format.
func FormatJSON(w io.Writer, s accumulator.Snapshot, opts Options) error {
	output := struct {
		Formatted      string         `json:"formatted"`
		Duration       string         `json:"duration"`
		Running        bool           `json:"running"`
		Mode           string         `json:"mode"`
		EffectiveScale float64        `json:"effectiveScale"`
		GlobalScale    float64        `json:"globalScale"`
		Steps          int64          `json:"steps,omitempty"`
		Units          jsonUnits      `json:"units"`
		Components     jsonComponents `json:"components"`
	}{
		Formatted:      s.Formatted(opts.IncludeMilliseconds, delimiter(opts)),
		Duration:       time.Duration(s.Microseconds * float64(time.Microsecond)).String(),
		Running:        s.Running,
		Mode:           s.Mode.String(),
		EffectiveScale: s.EffectiveScale,
		GlobalScale:    s.GlobalScale,
		Steps:          opts.Steps,
		Units: jsonUnits{
			Microseconds: s.Microseconds,
			Milliseconds: s.Milliseconds(),
			Seconds:      s.Seconds(),
			Minutes:      s.Minutes(),
			Hours:        s.Hours(),
			Days:         s.Days(),
		},
		Components: jsonComponents{
			Hours:        s.Components.Hours,
			Minutes:      s.Components.Minutes,
			Seconds:      s.Components.Seconds,
			Milliseconds: s.Components.Milliseconds,
			Microseconds: s.Components.Microseconds,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

type jsonUnits struct {
	Microseconds float64 `json:"microseconds"`
	Milliseconds float64 `json:"milliseconds"`
	Seconds      float64 `json:"seconds"`
	Minutes      float64 `json:"minutes"`
	Hours        float64 `json:"hours"`
	Days         float64 `json:"days"`
}

type jsonComponents struct {
	Hours        int64 `json:"hours"`
	Minutes      int64 `json:"minutes"`
	Seconds      int64 `json:"seconds"`
	Milliseconds int64 `json:"milliseconds"`
	Microseconds int64 `json:"microseconds"`
}

func delimiter(opts Options) string {
	if opts.Delimiter == "" {
		return ":"
	}
	return opts.Delimiter
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatNumber(n/1000), n%1000)
}
