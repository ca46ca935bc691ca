// Package redis implements the sliding window limiter over a shared Redis store
package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	perr "chirp/internal/platform/errors"
	"chirp/internal/platform/logger"
	"chirp/internal/services/ratelimit/domain"
)

// admitScript is the atomic sliding window check-and-add.
// KEYS[1] window zset, ARGV: now-ms, window-ms, limit, member.
// Returns {allowed, remaining, retry-after-ms}
var admitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count < limit then
  redis.call("ZADD", key, now, ARGV[4])
  redis.call("PEXPIRE", key, window)
  return {1, limit - count - 1, 0}
end

local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
local retry = window
if oldest[2] then
  retry = (tonumber(oldest[2]) + window) - now
end
return {0, 0, retry}
`)

// Limiter is a sliding window admitter backed by Redis sorted sets.
// One member per admitted action; expired members are trimmed on every call
type Limiter struct {
	rdb *goredis.Client
	cfg domain.Config
	log logger.Logger
	now func() time.Time
}

// New builds a Limiter; zero Config fields fall back to Defaults
func New(rdb *goredis.Client, cfg domain.Config) *Limiter {
	def := domain.Defaults()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	return &Limiter{
		rdb: rdb,
		cfg: cfg,
		log: *logger.Named("ratelimit"),
		now: time.Now,
	}
}

var _ domain.AdmitterPort = (*Limiter)(nil)

// Admit implements domain.AdmitterPort.
// The script runs atomically server-side, so concurrent replicas sharing the
// store cannot over-admit an identity
func (l *Limiter) Admit(ctx context.Context, identity string) (domain.Decision, error) {
	now := l.now()
	key := l.cfg.Prefix + ":" + identity
	member := uuid.NewString()

	res, err := admitScript.Run(ctx, l.rdb,
		[]string{key},
		now.UnixMilli(),
		l.cfg.Window.Milliseconds(),
		l.cfg.Limit,
		member,
	).Int64Slice()
	if err != nil {
		// fail closed: the caller surfaces this as a retryable failure
		return domain.Decision{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rate limit store unreachable")
	}
	if len(res) != 3 {
		l.log.Error().Ints64("result", res).Msg("admit script returned unexpected shape")
		return domain.Decision{}, errBadScriptResult
	}

	d := domain.Decision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}
	if !d.Allowed {
		l.log.Debug().
			Str("identity", identity).
			Dur("retry_after", d.RetryAfter).
			Msg("rate limit denied")
	}
	return d, nil
}

var errBadScriptResult = badScriptError{}

type badScriptError struct{}

func (badScriptError) Error() string { return "ratelimit: admit script returned unexpected shape" }
