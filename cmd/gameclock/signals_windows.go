//go:build windows

package main

import (
	"context"

	"gameclock/internal/driver"
	"gameclock/internal/progress"
)

func forwardControlSignals(ctx context.Context, _ *driver.Driver, _ *progress.Progress) error {
	<-ctx.Done()
	return nil
}
