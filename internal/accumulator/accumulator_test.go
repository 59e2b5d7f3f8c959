package accumulator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gameclock/internal/core"
)

type harness struct {
	acc   *Accumulator
	clock clockwork.FakeClock
	scale *core.FakeScale
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	fake := clockwork.NewFakeClock()
	scale := core.NewFakeScale(1)
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return &harness{
		acc:   New(core.NewClock(fake), scale, opts...),
		clock: fake,
		scale: scale,
	}
}

func TestNew_Defaults(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.acc.Running())
	assert.Equal(t, DeltaAccumulation, h.acc.Mode())
	assert.Equal(t, 0.0, h.acc.ElapsedMicroseconds())
	assert.Equal(t, 1.0, h.acc.EffectiveScale())
}

func TestNew_Autostart(t *testing.T) {
	h := newHarness(t, WithAutostart(true), WithTrackingMode(TimestampSampling))
	require.True(t, h.acc.Running())

	h.clock.Advance(time.Second)
	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())
}

func TestNew_NilScaleProvider(t *testing.T) {
	acc := New(core.NewClock(clockwork.NewFakeClock()), nil,
		WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	acc.Start()
	acc.Tick(time.Second)

	assert.Equal(t, 1e6, acc.ElapsedMicroseconds())
}

func TestTick_DeltaAccumulation(t *testing.T) {
	h := newHarness(t)
	h.acc.Start()

	h.acc.Tick(16 * time.Millisecond)
	h.acc.Tick(16 * time.Millisecond)

	assert.Equal(t, 32_000.0, h.acc.ElapsedMicroseconds())
}

func TestTick_IgnoresNegativeDelta(t *testing.T) {
	h := newHarness(t)
	h.acc.Start()

	h.acc.Tick(time.Second)
	h.acc.Tick(-3 * time.Second)

	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())
	assert.Equal(t, "00:00:01:000", h.acc.FormattedString(true, ":"))
}

func TestTick_PausedIsNoop(t *testing.T) {
	h := newHarness(t)

	h.acc.Tick(time.Second)

	assert.Equal(t, 0.0, h.acc.ElapsedMicroseconds())
}

func TestTick_IgnoredInTimestampMode(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()

	h.acc.Tick(time.Hour)

	assert.Equal(t, 0.0, h.acc.ElapsedMicroseconds())
}

func TestTimestampSampling_AccumulatesOnRead(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()

	h.clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 250_000.0, h.acc.ElapsedMicroseconds())

	h.clock.Advance(750 * time.Millisecond)
	assert.Equal(t, 1.0, h.acc.ElapsedSeconds())
}

func TestPause_FreezesTime(t *testing.T) {
	for _, mode := range []TrackingMode{DeltaAccumulation, TimestampSampling} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newHarness(t, WithTrackingMode(mode))
			h.acc.Start()
			h.clock.Advance(time.Second)
			h.acc.Tick(time.Second)
			h.acc.Pause()

			frozen := h.acc.ElapsedMicroseconds()
			assert.Equal(t, 1e6, frozen)

			for i := 0; i < 3; i++ {
				h.clock.Advance(time.Minute)
				h.scale.Set(float64(i + 5))
				h.acc.Tick(time.Minute)
				assert.Equal(t, frozen, h.acc.ElapsedMicroseconds())
			}
		})
	}
}

func TestStart_DoesNotCountPausedTime(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()
	h.clock.Advance(time.Second)
	h.acc.Pause()

	h.clock.Advance(time.Hour)
	h.acc.Start()
	h.clock.Advance(time.Second)

	assert.Equal(t, 2e6, h.acc.ElapsedMicroseconds())
}

func TestStartPause_Idempotent(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()
	h.clock.Advance(time.Second)
	h.acc.Start()

	assert.True(t, h.acc.Running())
	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds(), "second Start must not resync")

	h.acc.Pause()
	h.clock.Advance(time.Second)
	h.acc.Pause()

	assert.False(t, h.acc.Running())
	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())
}

func TestReset(t *testing.T) {
	tests := []struct {
		name         string
		pauseOnReset bool
		wantRunning  bool
	}{
		{name: "pause on reset", pauseOnReset: true, wantRunning: false},
		{name: "keep running", pauseOnReset: false, wantRunning: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t,
				WithTrackingMode(TimestampSampling),
				WithPauseOnReset(tt.pauseOnReset),
				WithScalePolicy(ScalePolicy{UseCustomScale: true, CustomScale: 2}))
			h.acc.Start()
			h.clock.Advance(time.Second)

			h.acc.Reset()

			assert.Equal(t, 0.0, h.acc.ElapsedMicroseconds())
			assert.Equal(t, tt.wantRunning, h.acc.Running())
			assert.Equal(t, TimestampSampling, h.acc.Mode())
			assert.Equal(t, 2.0, h.acc.Policy().CustomScale)
		})
	}
}

func TestReset_WhilePausedStaysPaused(t *testing.T) {
	h := newHarness(t)
	h.acc.Start()
	h.acc.Tick(time.Second)
	h.acc.Pause()

	h.acc.Reset()

	assert.False(t, h.acc.Running())
	assert.Equal(t, 0.0, h.acc.ElapsedMicroseconds())
}

func TestSetPauseOnReset(t *testing.T) {
	h := newHarness(t)
	h.acc.Start()

	h.acc.SetPauseOnReset(true)
	h.acc.Reset()

	assert.False(t, h.acc.Running())
}

func TestSetTrackingMode_Conservation(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()
	h.clock.Advance(1500 * time.Millisecond)
	before := h.acc.ElapsedMicroseconds()

	for i := 0; i < 5; i++ {
		h.acc.SetTrackingMode(DeltaAccumulation)
		h.acc.SetTrackingMode(TimestampSampling)
	}

	assert.Equal(t, before, h.acc.ElapsedMicroseconds())
}

func TestSetTrackingMode_FlushesWhenLeavingTimestamp(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	h.acc.Start()
	h.clock.Advance(time.Second)

	h.acc.SetTrackingMode(DeltaAccumulation)
	h.clock.Advance(time.Second)

	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())
}

func TestSetTrackingMode_ResyncsWhenEnteringTimestamp(t *testing.T) {
	h := newHarness(t)
	h.acc.Start()
	h.acc.Tick(time.Second)
	h.clock.Advance(5 * time.Second)

	h.acc.SetTrackingMode(TimestampSampling)
	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())

	h.clock.Advance(time.Second)
	assert.Equal(t, 2e6, h.acc.ElapsedMicroseconds())
}

func TestSetTrackingMode_AdoptsGlobalScaleWhenEnteringTimestamp(t *testing.T) {
	h := newHarness(t, WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	h.acc.Start()

	h.scale.Set(4)
	h.acc.SetTrackingMode(TimestampSampling)
	assert.Equal(t, 4.0, h.acc.ObservedGlobalScale())

	h.clock.Advance(time.Second)
	assert.Equal(t, 4e6, h.acc.ElapsedMicroseconds())
}

func TestEffectiveScale(t *testing.T) {
	tests := []struct {
		name   string
		policy ScalePolicy
		global float64
		want   float64
	}{
		{name: "none enabled", policy: ScalePolicy{CustomScale: 5}, global: 3, want: 1},
		{name: "global only", policy: ScalePolicy{UseGlobalScale: true, CustomScale: 5}, global: 3, want: 3},
		{name: "custom only", policy: ScalePolicy{UseCustomScale: true, CustomScale: 5}, global: 3, want: 5},
		{name: "stacked", policy: ScalePolicy{UseGlobalScale: true, UseCustomScale: true, CustomScale: 2}, global: 3, want: 6},
		{name: "zero freezes", policy: ScalePolicy{UseCustomScale: true, CustomScale: 0}, global: 3, want: 0},
		{name: "negative clamps", policy: ScalePolicy{UseCustomScale: true, CustomScale: -2}, global: 3, want: 0},
		{name: "double negative", policy: ScalePolicy{UseGlobalScale: true, UseCustomScale: true, CustomScale: -2}, global: -3, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, WithScalePolicy(tt.policy))
			h.scale.Set(tt.global)
			h.acc.Start()

			assert.Equal(t, tt.want, h.acc.EffectiveScale())
		})
	}
}

func TestScaleStacking(t *testing.T) {
	for _, mode := range []TrackingMode{DeltaAccumulation, TimestampSampling} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newHarness(t,
				WithTrackingMode(mode),
				WithScalePolicy(ScalePolicy{UseGlobalScale: true, UseCustomScale: true, CustomScale: 2}))
			h.scale.Set(3)
			h.acc.Start()

			h.clock.Advance(time.Second)
			h.acc.Tick(time.Second)

			assert.Equal(t, 6_000_000.0, h.acc.ElapsedMicroseconds())
		})
	}
}

func TestNegativeScale_NeverRunsBackward(t *testing.T) {
	h := newHarness(t, WithScalePolicy(ScalePolicy{UseCustomScale: true, CustomScale: 1}))
	h.acc.Start()
	h.acc.Tick(time.Second)

	h.acc.SetCustomScale(-1)
	h.acc.Tick(time.Second)

	assert.Equal(t, 1e6, h.acc.ElapsedMicroseconds())
	assert.Equal(t, 0.0, h.acc.EffectiveScale())
}

func TestSetCustomScale_FlushesUnderOldValue(t *testing.T) {
	h := newHarness(t,
		WithTrackingMode(TimestampSampling),
		WithScalePolicy(ScalePolicy{UseCustomScale: true, CustomScale: 2}))
	h.acc.Start()

	h.clock.Advance(time.Second)
	h.acc.SetCustomScale(3)
	h.clock.Advance(time.Second)

	assert.Equal(t, 5e6, h.acc.ElapsedMicroseconds())
}

func TestSetUseScaleFlags_FlushFirst(t *testing.T) {
	h := newHarness(t,
		WithTrackingMode(TimestampSampling),
		WithScalePolicy(ScalePolicy{CustomScale: 4}))
	h.scale.Set(10)
	h.acc.Start()

	h.clock.Advance(time.Second)
	h.acc.SetUseCustomScale(true)
	h.clock.Advance(time.Second)
	h.acc.SetUseGlobalScale(true)
	h.clock.Advance(time.Second)
	h.acc.SetScalePolicy(Unscaled)
	h.clock.Advance(time.Second)

	// 1s at 1x, 1s at 4x, 1s at 40x, 1s at 1x
	assert.Equal(t, 46e6, h.acc.ElapsedMicroseconds())
}

func TestGlobalScaleChange_DeltaMode(t *testing.T) {
	h := newHarness(t, WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	h.acc.Start()

	h.acc.Tick(time.Second)
	h.scale.Set(2)
	h.acc.Tick(time.Second)

	assert.Equal(t, 3e6, h.acc.ElapsedMicroseconds())
	assert.Equal(t, 2.0, h.acc.ObservedGlobalScale())
}

func TestGlobalScaleChange_TimestampModeFlushesAtPoll(t *testing.T) {
	h := newHarness(t,
		WithTrackingMode(TimestampSampling),
		WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	h.acc.Start()

	h.clock.Advance(time.Second)
	h.scale.Set(4)
	h.acc.Tick(0) // poll
	h.clock.Advance(time.Second)

	assert.Equal(t, 5e6, h.acc.ElapsedMicroseconds())
}

func TestGlobalScaleChange_UnpolledTimeUsesOldValue(t *testing.T) {
	h := newHarness(t,
		WithTrackingMode(TimestampSampling),
		WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	h.acc.Start()

	h.clock.Advance(time.Second)
	h.scale.Set(4)
	h.clock.Advance(time.Second)

	// The change is only seen at the read, so both seconds count at 1x.
	assert.Equal(t, 2e6, h.acc.ElapsedMicroseconds())
	h.clock.Advance(time.Second)
	assert.Equal(t, 6e6, h.acc.ElapsedMicroseconds())
}

func TestGlobalScaleChange_WhilePausedNotCounted(t *testing.T) {
	h := newHarness(t,
		WithTrackingMode(TimestampSampling),
		WithScalePolicy(ScalePolicy{UseGlobalScale: true}))
	h.acc.Start()
	h.clock.Advance(time.Second)
	h.acc.Pause()

	h.scale.Set(8)
	h.clock.Advance(time.Second)
	h.acc.Start()
	h.clock.Advance(time.Second)

	assert.Equal(t, 9e6, h.acc.ElapsedMicroseconds())
}

func TestReads_PollScaleProvider(t *testing.T) {
	h := newHarness(t, WithTrackingMode(TimestampSampling))
	before := h.scale.Reads()

	h.acc.ElapsedMicroseconds()
	h.acc.ElapsedSeconds()

	assert.Equal(t, before+2, h.scale.Reads())
}

func TestMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := newHarness(t, WithScalePolicy(ScalePolicy{UseGlobalScale: true, UseCustomScale: true, CustomScale: 1.5}))
	h.acc.Start()

	last := 0.0
	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0:
			h.scale.Set(rng.Float64() * 4)
		case 1:
			if h.acc.Mode() == DeltaAccumulation {
				h.acc.SetTrackingMode(TimestampSampling)
			} else {
				h.acc.SetTrackingMode(DeltaAccumulation)
			}
		case 2:
			h.acc.SetCustomScale(rng.Float64() * 3)
		}
		d := time.Duration(rng.Intn(50_000)) * time.Microsecond
		h.clock.Advance(d)
		h.acc.Tick(d)

		now := h.acc.ElapsedMicroseconds()
		require.GreaterOrEqual(t, now, last, "step %d", i)
		last = now
	}
}

func TestParseTrackingMode(t *testing.T) {
	m, err := ParseTrackingMode("Timestamp")
	require.NoError(t, err)
	assert.Equal(t, TimestampSampling, m)

	m, err = ParseTrackingMode(" delta ")
	require.NoError(t, err)
	assert.Equal(t, DeltaAccumulation, m)

	_, err = ParseTrackingMode("frames")
	assert.Error(t, err)
}
