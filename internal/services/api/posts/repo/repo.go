// Package repo provides postgres access for posts
package repo

import (
	"context"
	"time"

	"chirp/internal/modkit/repokit"
	perr "chirp/internal/platform/errors"
	"chirp/internal/platform/store"
)

// Repo defines the repository contract for posts
type Repo interface {
	Insert(ctx context.Context, id, authorID, content string) (RowPost, error)
	Recent(ctx context.Context, limit int) ([]RowPost, error)
}

// RowPost represents a post row from the database
type RowPost struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanPost(row store.Row) (RowPost, error) {
	var rr RowPost
	err := row.Scan(&rr.ID, &rr.AuthorID, &rr.Content, &rr.CreatedAt)
	return rr, err
}

func (r *queries) Insert(ctx context.Context, id, authorID, content string) (RowPost, error) {
	const sql = `
insert into posts (id, author_id, content)
values ($1, $2, $3)
returning id::text, author_id, content, created_at
`
	rr, err := store.One(ctx, r.q, scanPost, sql, id, authorID, content)
	if err != nil {
		return RowPost{}, perr.FromPostgresf(err, "posts insert failed")
	}
	return rr, nil
}

func (r *queries) Recent(ctx context.Context, limit int) ([]RowPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	const sql = `
select id::text, author_id, content, created_at
from posts
order by created_at desc, id desc
limit $1
`
	out, err := store.Many(ctx, r.q, scanPost, sql, limit)
	if err != nil {
		return nil, perr.FromPostgresf(err, "posts recent failed")
	}
	return out, nil
}
