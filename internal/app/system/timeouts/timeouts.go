// Package timeouts holds the per-operation deadlines used by handlers,
// workers and outbound clients.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: lists and multi-step flows (join, leave, remove)
//   - Upstream: calls to the metadata provider, including cache lookups
//   - Sweep: one full membership reconciliation pass
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultMedium   = 10 * time.Second
	DefaultUpstream = 8 * time.Second
	DefaultSweep    = 5 * time.Minute
)

// Config overrides the defaults. Zero fields keep the current value.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Medium   time.Duration
	Upstream time.Duration
	Sweep    time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:     DefaultPing,
		Short:    DefaultShort,
		Medium:   DefaultMedium,
		Upstream: DefaultUpstream,
		Sweep:    DefaultSweep,
	}
}

func Ping() time.Duration     { return get().Ping }
func Short() time.Duration    { return get().Short }
func Medium() time.Duration   { return get().Medium }
func Upstream() time.Duration { return get().Upstream }
func Sweep() time.Duration    { return get().Sweep }

func get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure applies non-zero values from cfg. Call it during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&cur.Ping, cfg.Ping)
	set(&cur.Short, cfg.Short)
	set(&cur.Medium, cfg.Medium)
	set(&cur.Upstream, cfg.Upstream)
	set(&cur.Sweep, cfg.Sweep)
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	cur = defaults()
	mu.Unlock()
}

// Current returns a snapshot of the configured values.
func Current() Config { return get() }

// WithTimeout is context.WithTimeout whose cancel func logs a warning
// when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "collection leave")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
