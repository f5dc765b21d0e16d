package dispatch

import (
	"context"
	"time"
)

// DefaultDelay is the pause after each send; Telegram throttles bots that
// post to the same chat more than about once per second.
const DefaultDelay = time.Second

// Pauser waits after a message has been sent.
type Pauser interface {
	Pause(ctx context.Context) error
}

// Delay pauses for a fixed duration, returning early if ctx is done.
type Delay time.Duration

// Pause implements Pauser.
func (d Delay) Pause(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PauseFunc adapts a function to Pauser.
type PauseFunc func(ctx context.Context) error

// Pause implements Pauser.
func (f PauseFunc) Pause(ctx context.Context) error {
	return f(ctx)
}
