package service

import (
	"context"
	"time"
)

// TimerDelayer waits on a real timer.
type TimerDelayer struct{}

func (TimerDelayer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
