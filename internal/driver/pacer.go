package driver

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces steps at a fixed rate. A rate of zero never waits.
type Pacer struct {
	limiter *rate.Limiter
}

func NewPacer(stepsPerSecond int) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(stepsPerSecond), 1),
	}
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter.Limit() == 0 {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

func (p *Pacer) Rate() int {
	return int(p.limiter.Limit())
}
