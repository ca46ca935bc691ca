package domain

import "context"

// ServicePort defines the service contract for posts
type ServicePort interface {
	Create(ctx context.Context, authorID string, in CreatePostInput) (Post, error)
	Feed(ctx context.Context, in FeedInput) ([]FeedEntry, error)
}
