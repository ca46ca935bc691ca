// Package domain defines identity directory types shared by resolvers
package domain

// AuthorProfile is the public identity of a post author
type AuthorProfile struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
}
