// Package service contains posts workflows
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chirp/internal/core/emoji"
	"chirp/internal/modkit/repokit"
	perr "chirp/internal/platform/errors"
	"chirp/internal/platform/logger"
	"chirp/internal/services/api/posts/domain"
	"chirp/internal/services/api/posts/repo"
	identdom "chirp/internal/services/directory/domain"
	ratedom "chirp/internal/services/ratelimit/domain"
)

const defaultOpTimeout = 5 * time.Second

// Service defines the service contract for posts
type Service interface{ domain.ServicePort }

// Config tunes service behavior
type Config struct {
	// OpTimeout bounds each create and feed operation
	OpTimeout time.Duration
}

// Svc implements the Service interface
type Svc struct {
	Repo     repo.Repo
	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	limiter  ratedom.AdmitterPort
	recorder ratedom.RecorderPort
	resolver identdom.ResolverPort
	log      logger.Logger
	cfg      Config
	newID    func() string
}

// New creates a new posts service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Repo],
	limiter ratedom.AdmitterPort,
	recorder ratedom.RecorderPort,
	resolver identdom.ResolverPort,
	cfg Config,
) *Svc {
	if db == nil {
		panic("posts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("posts.Service requires a non nil Repo binder")
	}
	if limiter == nil {
		panic("posts.Service requires a non nil limiter")
	}
	if resolver == nil {
		panic("posts.Service requires a non nil resolver")
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	return &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		limiter:  limiter,
		recorder: recorder,
		resolver: resolver,
		log:      *logger.Named("posts"),
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// Create validates the content, admits the author through the rate limiter,
// and appends the post. Validation runs before admission so rejected input
// never consumes quota
func (s *Svc) Create(ctx context.Context, authorID string, in domain.CreatePostInput) (domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	content := emoji.Normalize(in.Content)
	if v, ok := emoji.Check(content); !ok {
		return domain.Post{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", v), "content")
	}

	dec, err := s.limiter.Admit(ctx, authorID)
	if err != nil {
		return domain.Post{}, s.mapDeadline(ctx, err, "rate limit check failed")
	}
	s.record(authorID, dec.Allowed)
	if !dec.Allowed {
		s.log.Debug().
			Str("author_id", authorID).
			Dur("retry_after", dec.RetryAfter).
			Msg("post rejected by rate limit")
		return domain.Post{}, perr.RateLimitedf("too many posts, retry in %s", dec.RetryAfter.Round(time.Second))
	}

	row, err := s.Repo.Insert(ctx, s.newID(), authorID, content)
	if err != nil {
		return domain.Post{}, s.mapDeadline(ctx, err, "post insert failed")
	}
	return postFromRow(row), nil
}

// Feed returns the most recent posts joined with their authors' profiles.
// Authors are resolved in a single batched directory lookup and the store
// ordering is preserved in the result
func (s *Svc) Feed(ctx context.Context, in domain.FeedInput) ([]domain.FeedEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	rows, err := s.Repo.Recent(ctx, in.Limit)
	if err != nil {
		return nil, s.mapDeadline(ctx, err, "feed query failed")
	}
	if len(rows) == 0 {
		return []domain.FeedEntry{}, nil
	}

	ids := distinctAuthors(rows)
	profiles, err := s.resolver.ResolveMany(ctx, ids)
	if err != nil {
		return nil, s.mapDeadline(ctx, err, "author lookup failed")
	}

	out := make([]domain.FeedEntry, 0, len(rows))
	for _, r := range rows {
		author, ok := profiles[r.AuthorID]
		if !ok {
			s.log.Error().
				Str("post_id", r.ID).
				Str("author_id", r.AuthorID).
				Msg("feed author missing from directory")
			return nil, perr.Integrityf("author for post not found")
		}
		out = append(out, domain.FeedEntry{Post: postFromRow(r), Author: author})
	}
	return out, nil
}

// record reports the admission outcome without blocking the request path
func (s *Svc) record(authorID string, allowed bool) {
	if s.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.recorder.Record(ctx, authorID, allowed); err != nil {
			s.log.Warn().Err(err).Msg("rate limit stats record failed")
		}
	}()
}

func (s *Svc) mapDeadline(ctx context.Context, err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return perr.Timeoutf("%s: deadline exceeded", msg)
	}
	return err
}

func postFromRow(r repo.RowPost) domain.Post {
	return domain.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

func distinctAuthors(rows []repo.RowPost) []string {
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.AuthorID]; ok {
			continue
		}
		seen[r.AuthorID] = struct{}{}
		ids = append(ids, r.AuthorID)
	}
	return ids
}
