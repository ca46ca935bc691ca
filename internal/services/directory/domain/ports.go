package domain

import "context"

// ResolverPort answers batched identity lookups.
// The returned map is keyed by user id and may omit unknown ids;
// a missing id is not an error. Errors mean the directory itself
// could not answer and callers must treat the whole lookup as failed
type ResolverPort interface {
	ResolveMany(ctx context.Context, ids []string) (map[string]AuthorProfile, error)
}
