package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	perr "chirp/internal/platform/errors"
	phttp "chirp/internal/platform/net/http"
	"chirp/internal/services/api/posts/domain"
	dirdom "chirp/internal/services/directory/domain"
)

type fakeService struct {
	createIn  domain.CreatePostInput
	createUID string
	createErr error
	feedIn    domain.FeedInput
	feedErr   error
}

func (f *fakeService) Create(_ context.Context, uid string, in domain.CreatePostInput) (domain.Post, error) {
	f.createUID = uid
	f.createIn = in
	if f.createErr != nil {
		return domain.Post{}, f.createErr
	}
	return domain.Post{
		ID:        "p1",
		AuthorID:  uid,
		Content:   in.Content,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeService) Feed(_ context.Context, in domain.FeedInput) ([]domain.FeedEntry, error) {
	f.feedIn = in
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return []domain.FeedEntry{{
		Post:   domain.Post{ID: "p1", AuthorID: "u1", Content: "😀"},
		Author: dirdom.AuthorProfile{ID: "u1", Handle: "ada"},
	}}, nil
}

type staticAuth struct {
	uid string
	err error
}

func (a staticAuth) Parse(*stdhttp.Request) (string, error) { return a.uid, a.err }

func newTestRouter(svc *fakeService, auth staticAuth) *chi.Mux {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	r.Route("/posts", func(rr phttp.Router) {
		Register(rr, svc, auth)
	})
	return m
}

func TestFeed_ReturnsEnvelopeWithEntries(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	m := newTestRouter(svc, staticAuth{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/posts?limit=25", nil)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if svc.feedIn.Limit != 25 {
		t.Fatalf("limit = %d, want 25", svc.feedIn.Limit)
	}

	var env struct {
		StatusCode int                `json:"status_code"`
		Data       []domain.FeedEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].Author.Handle != "ada" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestFeed_IsPublic(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	m := newTestRouter(svc, staticAuth{err: perr.Unauthorizedf("no token")})

	req := httptest.NewRequest(stdhttp.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreate_UsesAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	m := newTestRouter(svc, staticAuth{uid: "user-9"})

	req := httptest.NewRequest(stdhttp.MethodPost, "/posts", strings.NewReader(`{"content":"😀🎉"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if svc.createUID != "user-9" {
		t.Fatalf("uid = %q, want user-9", svc.createUID)
	}
	if svc.createIn.Content != "😀🎉" {
		t.Fatalf("content = %q", svc.createIn.Content)
	}
}

func TestCreate_UnauthenticatedIs401(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	m := newTestRouter(svc, staticAuth{err: perr.Unauthorizedf("missing bearer token")})

	req := httptest.NewRequest(stdhttp.MethodPost, "/posts", strings.NewReader(`{"content":"😀"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body %s", rec.Code, rec.Body.String())
	}
	if svc.createUID != "" {
		t.Fatal("service must not be reached without auth")
	}
}

func TestCreate_ErrorCodesMapToStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", perr.Newf(perr.ErrorCodeValidation, "only emojis are allowed"), stdhttp.StatusBadRequest},
		{"rate limited", perr.RateLimitedf("too many posts"), stdhttp.StatusTooManyRequests},
		{"db", perr.DBf("insert failed"), stdhttp.StatusInternalServerError},
		{"unavailable", perr.Unavailablef("limiter down"), stdhttp.StatusServiceUnavailable},
		{"timeout", perr.Timeoutf("deadline exceeded"), stdhttp.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeService{createErr: tc.err}
			m := newTestRouter(svc, staticAuth{uid: "u1"})

			req := httptest.NewRequest(stdhttp.MethodPost, "/posts", strings.NewReader(`{"content":"😀"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			m.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestFeed_IntegrityErrorIs500(t *testing.T) {
	t.Parallel()

	svc := &fakeService{feedErr: perr.Integrityf("author for post not found")}
	m := newTestRouter(svc, staticAuth{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "author for post not found") {
		t.Fatalf("body %s", rec.Body.String())
	}
}
