package module

import (
	"context"

	"chirp/internal/services/api/posts/domain"
	postssvc "chirp/internal/services/api/posts/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPostsPort adapts the posts service to the domain port interface
type adaptPostsPort struct{ svc postssvc.Service }

// Create implements the domain ServicePort interface
func (a adaptPostsPort) Create(ctx context.Context, authorID string, in domain.CreatePostInput) (domain.Post, error) {
	return a.svc.Create(ctx, authorID, in)
}

// Feed implements the domain ServicePort interface
func (a adaptPostsPort) Feed(ctx context.Context, in domain.FeedInput) ([]domain.FeedEntry, error) {
	return a.svc.Feed(ctx, in)
}
