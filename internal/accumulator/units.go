package accumulator

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	usPerMilli  = 1e3
	usPerSecond = 1e6
	usPerMinute = 6e7
	usPerHour   = 3.6e9
	usPerDay    = 8.64e10
)

// ElapsedMicroseconds reconciles pending time and returns the total.
func (a *Accumulator) ElapsedMicroseconds() float64 {
	a.reconcile()
	return a.elapsed
}

func (a *Accumulator) ElapsedMilliseconds() float64 { return a.ElapsedMicroseconds() / usPerMilli }
func (a *Accumulator) ElapsedSeconds() float64      { return a.ElapsedMicroseconds() / usPerSecond }
func (a *Accumulator) ElapsedMinutes() float64      { return a.ElapsedMicroseconds() / usPerMinute }
func (a *Accumulator) ElapsedHours() float64        { return a.ElapsedMicroseconds() / usPerHour }
func (a *Accumulator) ElapsedDays() float64         { return a.ElapsedMicroseconds() / usPerDay }

// Elapsed returns the total as a time.Duration, truncated to nanoseconds.
func (a *Accumulator) Elapsed() time.Duration {
	return time.Duration(a.ElapsedMicroseconds() * float64(time.Microsecond))
}

// Components is an elapsed duration broken into clock fields. Hours is
// unbounded.
type Components struct {
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
}

// ComponentsOf breaks a microsecond total into clock fields.
func ComponentsOf(us float64) Components {
	return Components{
		Hours:        int64(math.Floor(us / usPerHour)),
		Minutes:      int64(math.Floor(us/usPerMinute)) % 60,
		Seconds:      int64(math.Floor(us/usPerSecond)) % 60,
		Milliseconds: int64(math.Floor(us/usPerMilli)) % 1000,
		Microseconds: int64(math.Floor(us)) % 1000,
	}
}

// TimeComponents reconciles pending time and breaks it into clock fields.
func (a *Accumulator) TimeComponents() Components {
	return ComponentsOf(a.ElapsedMicroseconds())
}

// FormattedString renders elapsed time as HH:MM:SS with the given delimiter,
// optionally followed by milliseconds.
func (a *Accumulator) FormattedString(includeMilliseconds bool, delimiter string) string {
	return a.TimeComponents().Format(includeMilliseconds, delimiter)
}

func (c Components) HoursText() string        { return fmt.Sprint(abs(c.Hours)) }
func (c Components) MinutesText() string      { return fmt.Sprint(abs(c.Minutes)) }
func (c Components) SecondsText() string      { return fmt.Sprint(abs(c.Seconds)) }
func (c Components) MillisecondsText() string { return fmt.Sprint(abs(c.Milliseconds)) }
func (c Components) MicrosecondsText() string { return fmt.Sprint(abs(c.Microseconds)) }

func (c Components) HoursPadded() string        { return fmt.Sprintf("%02d", abs(c.Hours)) }
func (c Components) MinutesPadded() string      { return fmt.Sprintf("%02d", abs(c.Minutes)) }
func (c Components) SecondsPadded() string      { return fmt.Sprintf("%02d", abs(c.Seconds)) }
func (c Components) MillisecondsPadded() string { return fmt.Sprintf("%03d", abs(c.Milliseconds)) }

// Format joins the padded fields with delimiter.
func (c Components) Format(includeMilliseconds bool, delimiter string) string {
	parts := []string{c.HoursPadded(), c.MinutesPadded(), c.SecondsPadded()}
	if includeMilliseconds {
		parts = append(parts, c.MillisecondsPadded())
	}
	return strings.Join(parts, delimiter)
}

func (c Components) String() string { return c.Format(true, ":") }

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
