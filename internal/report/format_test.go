package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"gameclock/internal/accumulator"
)

func testSnapshot() accumulator.Snapshot {
	us := 3_725_000_003.0
	return accumulator.Snapshot{
		Microseconds:   us,
		Running:        true,
		Mode:           accumulator.TimestampSampling,
		EffectiveScale: 2,
		GlobalScale:    0.5,
		Components:     accumulator.ComponentsOf(us),
	}
}

func TestFormatText_BasicOutput(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, testSnapshot(), Options{IncludeMilliseconds: true, Steps: 1234567})

	output := buf.String()

	for _, want := range []string{
		"Game Clock - Elapsed Time",
		"Elapsed:        01:02:05:000",
		"State:          running (timestamp mode)",
		"Scale:          2x (global 0.5)",
		"Steps:          1,234,567",
		"Microseconds: 3725000003",
		"Hours:        1.034722",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatText_PausedNoSteps(t *testing.T) {
	s := testSnapshot()
	s.Running = false

	var buf bytes.Buffer
	FormatText(&buf, s, Options{Delimiter: "."})
	output := buf.String()

	if !strings.Contains(output, "Elapsed:        01.02.05\n") {
		t.Errorf("expected dotted clock without milliseconds, got: %s", output)
	}
	if !strings.Contains(output, "paused") {
		t.Errorf("expected paused state, got: %s", output)
	}
	if strings.Contains(output, "Steps:") {
		t.Errorf("expected no steps line, got: %s", output)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(&buf, testSnapshot(), Options{IncludeMilliseconds: true, Steps: 42}); err != nil {
		t.Fatalf("FormatJSON() error: %v", err)
	}

	body := buf.Bytes()
	if !gjson.ValidBytes(body) {
		t.Fatalf("invalid JSON: %s", body)
	}

	checks := map[string]string{
		"formatted":               "01:02:05:000",
		"duration":                "1h2m5.000003s",
		"mode":                    "timestamp",
		"running":                 "true",
		"steps":                   "42",
		"effectiveScale":          "2",
		"components.hours":        "1",
		"components.minutes":      "2",
		"components.seconds":      "5",
		"components.milliseconds": "0",
		"components.microseconds": "3",
		"units.microseconds":      "3725000003",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(body, path).String(); got != want {
			t.Errorf("%s = %q, expected %q", path, got, want)
		}
	}
}

func TestFormatJSON_OmitsZeroSteps(t *testing.T) {
	var buf bytes.Buffer
	_ = FormatJSON(&buf, testSnapshot(), Options{})

	if gjson.GetBytes(buf.Bytes(), "steps").Exists() {
		t.Errorf("expected steps to be omitted, got: %s", buf.String())
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range tests {
		if got := formatNumber(n); got != want {
			t.Errorf("formatNumber(%d) = %q, expected %q", n, got, want)
		}
	}
}
