package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

type pinger interface {
	Ping(ctx context.Context) bool
}

// KeepAlive pings the user store on a fixed interval so a hosted database on
// a free tier is not paused for inactivity. Results are only logged.
type KeepAlive struct {
	gateway  pinger
	interval time.Duration
	failures *rate.Sometimes
	report   func(ok bool)
}

func NewKeepAlive(gateway pinger, interval time.Duration) *KeepAlive {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &KeepAlive{
		gateway:  gateway,
		interval: interval,
		// an outage logs once, then every half hour
		failures: &rate.Sometimes{First: 1, Interval: 30 * time.Minute},
	}
}

// OnResult registers fn to receive the outcome of every ping.
func (k *KeepAlive) OnResult(fn func(ok bool)) *KeepAlive {
	k.report = fn
	return k
}

// Run blocks until ctx is cancelled. The first ping happens one interval after start.
func (k *KeepAlive) Run(ctx context.Context) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.tick(ctx)
		}
	}
}

func (k *KeepAlive) tick(ctx context.Context) bool {
	ok := k.gateway.Ping(ctx)
	if k.report != nil {
		k.report(ok)
	}

	if ok {
		slog.Debug("keep-alive ping succeeded")
		return true
	}

	k.failures.Do(func() {
		slog.Warn("keep-alive ping failed")
	})
	return false
}
