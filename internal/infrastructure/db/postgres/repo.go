package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) EnsureVideo(ctx context.Context, fileID, title, description string) (string, error) {
	if _, err := r.db.ExecContext(ctx, ensureVideoSQL, uuid.NewString(), fileID, title, description); err != nil {
		return "", err
	}
	var id string
	if err := r.db.QueryRowContext(ctx, getVideoIDSQL, fileID).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) GetReaction(ctx context.Context, videoID, identity string) (*domain.Reaction, error) {
	var (
		out  domain.Reaction
		kind string
	)
	err := r.db.QueryRowContext(ctx, getReactionSQL, videoID, identity).
		Scan(&out.ID, &out.VideoID, &out.Identity, &kind, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.Kind = domain.Kind(kind)
	return &out, nil
}

func (r *Repo) DeleteReaction(ctx context.Context, videoID, identity string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteReactionSQL, videoID, identity)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) InsertReaction(ctx context.Context, rx *domain.Reaction) error {
	_, err := r.db.ExecContext(ctx, insertReactionSQL,
		rx.ID, rx.VideoID, rx.Identity, string(rx.Kind), rx.CreatedAt,
	)
	return err
}

func (r *Repo) CountByKind(ctx context.Context, videoID string) ([]domain.ReactionCount, error) {
	rows, err := r.db.QueryContext(ctx, countByKindSQL, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReactionCount{}
	for rows.Next() {
		var (
			kind string
			n    int64
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out = append(out, domain.ReactionCount{Kind: domain.Kind(kind), Count: n})
	}
	return out, rows.Err()
}

func (r *Repo) CountAll(ctx context.Context) ([]domain.VideoReactionCount, error) {
	rows, err := r.db.QueryContext(ctx, countAllSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.VideoReactionCount{}
	for rows.Next() {
		var (
			c    domain.VideoReactionCount
			kind string
		)
		if err := rows.Scan(&c.VideoID, &kind, &c.Count); err != nil {
			return nil, err
		}
		c.Kind = domain.Kind(kind)
		out = append(out, c)
	}
	return out, rows.Err()
}
