// Package http provides http transport for posts
package http

import (
	stdhttp "net/http"
	"strconv"

	"chirp/internal/modkit/httpkit"
	"chirp/internal/platform/net/middleware"
	"chirp/internal/services/api/posts/domain"
	svc "chirp/internal/services/api/posts/service"
)

// Register mounts posts endpoints on the given router.
// Reading the feed is public, creating a post requires a bearer token
func Register(r httpkit.Router, s svc.Service, auth middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.feed)
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.CreatePostInput](pr, "/", h.create)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route GET /posts Posts postsFeed
// @Summary Recent posts joined with author profiles
// @Tags Posts
// @Produce json
// @Param limit query int false "Max entries to return" default(100)
// @Success 200 {array} domain.FeedEntry "ok"
// @Router /posts [get]
func (h *handlers) feed(r *stdhttp.Request) (any, error) {
	in := domain.FeedInput{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			in.Limit = n
		}
	}
	return h.svc.Feed(r.Context(), in)
}

// swagger:route POST /posts Posts postsCreate
// @Summary Create an emoji post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.CreatePostInput true "Post content"
// @Success 200 {object} domain.Post "ok"
// @Router /posts [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreatePostInput) (any, error) {
	return h.svc.Create(r.Context(), httpkit.MustUser(r), in)
}
