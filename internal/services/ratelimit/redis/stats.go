package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"chirp/internal/services/ratelimit/domain"
)

// Stats records limiter decisions as Redis hash counters.
// Totals are cumulative; minute buckets expire after ttl
type Stats struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// StatsOption mutates Stats during construction
type StatsOption func(*Stats)

// WithStatsTTL overrides the bucket retention (default 24h)
func WithStatsTTL(d time.Duration) StatsOption {
	return func(s *Stats) { s.ttl = d }
}

// NewStats builds a Stats recorder under prefix (default "ratelimit:stats")
func NewStats(rdb *goredis.Client, prefix string, opts ...StatsOption) *Stats {
	if prefix == "" {
		prefix = "ratelimit:stats"
	}
	s := &Stats{
		rdb:    rdb,
		prefix: prefix,
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.RecorderPort = (*Stats)(nil)

// Record implements domain.RecorderPort
func (s *Stats) Record(ctx context.Context, identity string, allowed bool) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	field := "denied"
	if allowed {
		field = "allowed"
	}

	bucketKey := s.prefix + ":minute:" + s.now().UTC().Format("200601021504")

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}
	if identity != "" {
		pipe.HIncrBy(ctx, s.prefix+":identity:"+identity, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.prefix+":identity:"+identity, s.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}
