// Package domain holds DTOs for posts http and service contracts
package domain

import (
	"time"

	dirdom "chirp/internal/services/directory/domain"
)

// CreatePostInput is the input for creating a post
type CreatePostInput struct {
	Content string `json:"content" validate:"required" example:"😀🎉"`
}

// FeedInput is the input for fetching the feed
type FeedInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"100"`
}

// Post is a single emoji post
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedEntry pairs a post with its author's public profile
type FeedEntry struct {
	Post   Post                 `json:"post"`
	Author dirdom.AuthorProfile `json:"author"`
}
