//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gameclock/internal/driver"
	"gameclock/internal/progress"
)

// forwardControlSignals maps SIGUSR1 to toggle and SIGUSR2 to reset.
func forwardControlSignals(ctx context.Context, drv *driver.Driver, prog *progress.Progress) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			cmd := driver.Command{Kind: driver.CmdToggle}
			if sig == syscall.SIGUSR2 {
				cmd = driver.Command{Kind: driver.CmdReset}
			}
			prog.Printf("received %v: %s", sig, cmd.Kind)
			if err := drv.Send(ctx, cmd); err != nil {
				return nil
			}
		}
	}
}
