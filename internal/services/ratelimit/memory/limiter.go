// Package memory implements the sliding window limiter with in-process state.
// It honors the same admission contract as the Redis limiter but offers no
// cross-replica fairness, so it is only suitable for tests and single-node dev
package memory

import (
	"context"
	"sync"
	"time"

	"chirp/internal/services/ratelimit/domain"
)

// Limiter keeps per-identity admission timestamps under a mutex
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	cfg     domain.Config
	now     func() time.Time

	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type entry struct {
	stamps   []time.Time
	lastSeen time.Time
}

// Option mutates the Limiter during construction
type Option func(*Limiter)

// WithClock injects a clock for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithIdleTTL overrides how long an idle identity is kept before cleanup
func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) { l.idleTTL = d }
}

// WithCleanupEvery overrides the janitor sweep interval
func WithCleanupEvery(d time.Duration) Option {
	return func(l *Limiter) { l.cleanupEvery = d }
}

// New builds a Limiter; zero Config fields fall back to Defaults
func New(cfg domain.Config, opts ...Option) *Limiter {
	def := domain.Defaults()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	l := &Limiter{
		entries:      make(map[string]*entry),
		cfg:          cfg,
		now:          time.Now,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ domain.AdmitterPort = (*Limiter)(nil)

// Admit implements domain.AdmitterPort
func (l *Limiter) Admit(_ context.Context, identity string) (domain.Decision, error) {
	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identity]
	if !ok {
		e = &entry{}
		l.entries[identity] = e
	}
	e.lastSeen = now

	// drop stamps that slid out of the window
	kept := e.stamps[:0]
	for _, ts := range e.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	e.stamps = kept

	if len(e.stamps) < l.cfg.Limit {
		e.stamps = append(e.stamps, now)
		return domain.Decision{
			Allowed:   true,
			Remaining: l.cfg.Limit - len(e.stamps),
		}, nil
	}

	oldest := e.stamps[0]
	return domain.Decision{
		Allowed:    false,
		RetryAfter: oldest.Add(l.cfg.Window).Sub(now),
	}, nil
}

// Cleanup drops identities idle beyond the TTL
func (l *Limiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor cleans idle identities periodically until ctx is done
func (l *Limiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}
	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
