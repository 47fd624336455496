package games

import (
	"context"
	"time"
)

// Countdown calls tick once per interval, passing the number of ticks still
// to come, until n ticks have been delivered or ctx is done. It blocks, and
// returns ctx.Err() when it was canceled before finishing.
func Countdown(ctx context.Context, interval time.Duration, n int, tick func(remaining int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for remaining := n - 1; remaining >= 0; remaining-- {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// A tick and a cancel can be ready together; cancel wins.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		tick(remaining)
	}

	return nil
}
