package sim

import (
	"context"
	"time"
)

// TickerScheduler delivers frames at a fixed wall-clock rate. Timestamps are
// measured from construction on the monotonic clock.
type TickerScheduler struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerScheduler schedules rate frames per second; rate <= 0 means 60.
func NewTickerScheduler(rate int) *TickerScheduler {
	if rate <= 0 {
		rate = 60
	}
	return &TickerScheduler{
		ticker: time.NewTicker(time.Second / time.Duration(rate)),
		start:  time.Now(),
	}
}

func (t *TickerScheduler) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case now := <-t.ticker.C:
		return now.Sub(t.start), nil
	}
}

// Stop releases the underlying ticker.
func (t *TickerScheduler) Stop() {
	t.ticker.Stop()
}
