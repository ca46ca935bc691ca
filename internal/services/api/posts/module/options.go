package module

import (
	"time"

	"chirp/internal/platform/config"
)

// Options controls posts behavior and directory client settings
type Options struct {
	OpTimeout time.Duration

	// rate limiter
	RateLimit  int
	RateWindow time.Duration

	// identity directory client
	DirBaseURL    string
	DirToken      string
	DirUserAgent  string
	DirTimeout    time.Duration
	DirMaxRetries int
	DirRetryBase  time.Duration
}

// FromConfig reads POSTS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("POSTS_")
	return Options{
		OpTimeout:     pc.MayDuration("OP_TIMEOUT", 5*time.Second),
		RateLimit:     pc.MayInt("RATE_LIMIT", 3),
		RateWindow:    pc.MayDuration("RATE_WINDOW", time.Minute),
		DirBaseURL:    pc.MayString("DIR_BASE_URL", ""),
		DirToken:      pc.MayString("DIR_TOKEN", ""),
		DirUserAgent:  pc.MayString("DIR_UA", "chirp-api"),
		DirTimeout:    pc.MayDuration("DIR_TIMEOUT", 10*time.Second),
		DirMaxRetries: pc.MayInt("DIR_MAX_RETRIES", 3),
		DirRetryBase:  pc.MayDuration("DIR_RETRY_BASE", 250*time.Millisecond),
	}
}
