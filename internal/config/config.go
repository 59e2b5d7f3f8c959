// Package config handles YAML configuration parsing.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"gameclock/internal/accumulator"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Config is the root configuration structure.
type Config struct {
	Accumulator AccumulatorConfig `yaml:"accumulator"`
	Driver      DriverConfig      `yaml:"driver"`
	GlobalScale *ScaleSchedule    `yaml:"globalScale,omitempty"`
	Output      OutputConfig      `yaml:"output"`
}

// AccumulatorConfig mirrors the accumulator's construction options.
type AccumulatorConfig struct {
	Mode           string   `yaml:"mode"`
	Autostart      *bool    `yaml:"autostart,omitempty"`
	PauseOnReset   bool     `yaml:"pauseOnReset"`
	UseGlobalScale bool     `yaml:"useGlobalScale"`
	UseCustomScale bool     `yaml:"useCustomScale"`
	CustomScale    *float64 `yaml:"customScale,omitempty"`
}

// DriverConfig controls the step loop.
type DriverConfig struct {
	StepsPerSecond *int `yaml:"stepsPerSecond,omitempty"` // defaults to 60, 0 = unpaced
	MaxSteps       int  `yaml:"maxSteps"`                 // 0 = unlimited
}

// ScaleSchedule drives the global scale over real time.
type ScaleSchedule struct {
	Loop   bool         `yaml:"loop"`
	Phases []ScalePhase `yaml:"phases"`
}

// TotalDuration returns the sum of all phase durations.
func (s *ScaleSchedule) TotalDuration() time.Duration {
	var total time.Duration
	for _, p := range s.Phases {
		total += p.Duration
	}
	return total
}

// ScalePhase holds one global scale value for a stretch of real time.
type ScalePhase struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	Scale    float64       `yaml:"scale"`
}

// OutputConfig controls formatted output.
type OutputConfig struct {
	IncludeMilliseconds bool          `yaml:"includeMilliseconds"`
	Delimiter           string        `yaml:"delimiter"`
	ProgressInterval    time.Duration `yaml:"progressInterval"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads, defaults and validates a YAML configuration file.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Accumulator.Mode == "" {
		c.Accumulator.Mode = accumulator.DeltaAccumulation.String()
	}
	if c.Accumulator.Autostart == nil {
		v := true
		c.Accumulator.Autostart = &v
	}
	if c.Accumulator.CustomScale == nil {
		v := 1.0
		c.Accumulator.CustomScale = &v
	}
	if c.Driver.StepsPerSecond == nil {
		v := 60
		c.Driver.StepsPerSecond = &v
	}
	if c.Output.Delimiter == "" {
		c.Output.Delimiter = ":"
	}
	if c.Output.ProgressInterval == 0 {
		c.Output.ProgressInterval = time.Second
	}
}

// Validate rejects values the accumulator must never see.
func (c *Config) Validate() error {
	if _, err := accumulator.ParseTrackingMode(c.Accumulator.Mode); err != nil {
		return invalidf("accumulator.mode: %v", err)
	}
	if c.Accumulator.CustomScale != nil && !finite(*c.Accumulator.CustomScale) {
		return invalidf("accumulator.customScale must be a finite number")
	}
	if c.Driver.StepsPerSecond != nil && *c.Driver.StepsPerSecond < 0 {
		return invalidf("driver.stepsPerSecond must be >= 0, got %d", *c.Driver.StepsPerSecond)
	}
	if c.Driver.MaxSteps < 0 {
		return invalidf("driver.maxSteps must be >= 0, got %d", c.Driver.MaxSteps)
	}
	if c.Output.ProgressInterval < 0 {
		return invalidf("output.progressInterval must be >= 0")
	}
	if c.GlobalScale != nil {
		for i, p := range c.GlobalScale.Phases {
			if p.Duration <= 0 {
				return invalidf("globalScale.phases[%d] (%s): duration must be > 0", i, p.Name)
			}
			if !finite(p.Scale) {
				return invalidf("globalScale.phases[%d] (%s): scale must be a finite number", i, p.Name)
			}
		}
	}
	return nil
}

// Options converts the accumulator section into construction options.
func (a AccumulatorConfig) Options() ([]accumulator.Option, error) {
	mode, err := accumulator.ParseTrackingMode(a.Mode)
	if err != nil {
		return nil, invalidf("accumulator.mode: %v", err)
	}
	custom := 1.0
	if a.CustomScale != nil {
		custom = *a.CustomScale
	}
	autostart := a.Autostart == nil || *a.Autostart
	return []accumulator.Option{
		accumulator.WithTrackingMode(mode),
		accumulator.WithScalePolicy(accumulator.ScalePolicy{
			UseGlobalScale: a.UseGlobalScale,
			UseCustomScale: a.UseCustomScale,
			CustomScale:    custom,
		}),
		accumulator.WithAutostart(autostart),
		accumulator.WithPauseOnReset(a.PauseOnReset),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
