package driver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gameclock/internal/accumulator"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognized input.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind identifies a control action applied on the step loop.
type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdResume
	CmdToggle
	CmdReset
	CmdSetMode
	CmdSetCustomScale
)

func (k CommandKind) String() string {
	switch k {
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdToggle:
		return "toggle"
	case CmdReset:
		return "reset"
	case CmdSetMode:
		return "mode"
	case CmdSetCustomScale:
		return "scale"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a control action. Mode and Scale are only read by the kinds
// that need them.
type Command struct {
	Kind  CommandKind
	Mode  accumulator.TrackingMode
	Scale float64
}

// ParseCommand parses "pause", "resume", "toggle", "reset",
// "mode <delta|timestamp>" or "scale <float>".
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	switch fields[0] {
	case "pause":
		return Command{Kind: CmdPause}, nil
	case "resume", "start":
		return Command{Kind: CmdResume}, nil
	case "toggle":
		return Command{Kind: CmdToggle}, nil
	case "reset":
		return Command{Kind: CmdReset}, nil
	case "mode":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: mode takes one argument", ErrUnknownCommand)
		}
		m, err := accumulator.ParseTrackingMode(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		return Command{Kind: CmdSetMode, Mode: m}, nil
	case "scale":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: scale takes one argument", ErrUnknownCommand)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Command{}, fmt.Errorf("%w: invalid scale %q", ErrUnknownCommand, fields[1])
		}
		return Command{Kind: CmdSetCustomScale, Scale: v}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

func (c Command) apply(a *accumulator.Accumulator) {
	switch c.Kind {
	case CmdPause:
		a.Pause()
	case CmdResume:
		a.Start()
	case CmdToggle:
		if a.Running() {
			a.Pause()
		} else {
			a.Start()
		}
	case CmdReset:
		a.Reset()
	case CmdSetMode:
		a.SetTrackingMode(c.Mode)
	case CmdSetCustomScale:
		a.SetCustomScale(c.Scale)
	}
}
