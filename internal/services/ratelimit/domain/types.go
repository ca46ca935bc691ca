// Package domain holds the rate limiting contracts shared by limiter backends
package domain

import "time"

// Decision is the outcome of one admission check
type Decision struct {
	// Allowed reports whether the action was admitted into the window
	Allowed bool

	// Remaining is the number of actions left in the current window
	Remaining int

	// RetryAfter suggests how long to wait before the window frees a slot
	// zero when Allowed or when the backend has no estimate
	RetryAfter time.Duration
}

// Config sizes the sliding window
type Config struct {
	// Limit is the max number of admitted actions per window
	Limit int

	// Window is the trailing duration the limit applies over
	Window time.Duration

	// Prefix namespaces limiter keys in the shared store
	Prefix string
}

// Defaults returns the stock three-per-minute window
func Defaults() Config {
	return Config{Limit: 3, Window: time.Minute, Prefix: "ratelimit"}
}
