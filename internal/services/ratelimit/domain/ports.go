package domain

import "context"

// AdmitterPort decides whether an identity may act right now.
// Admit is atomic with respect to concurrent calls for the same identity,
// including calls from other service replicas sharing the backing store.
// A non-nil error means the backend could not answer; callers must treat
// that as a denial (fail closed), never as an admit
type AdmitterPort interface {
	Admit(ctx context.Context, identity string) (Decision, error)
}

// RecorderPort records admission outcomes for limiter analytics.
// Implementations must be safe to call fire-and-forget; a recording
// failure never affects the admission result
type RecorderPort interface {
	Record(ctx context.Context, identity string, allowed bool) error
}
