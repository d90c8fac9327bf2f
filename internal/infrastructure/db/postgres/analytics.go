package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

func (r *Repo) InsertEvent(ctx context.Context, e *domain.ViewEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.VideoID, e.Identity, string(e.Type), e.TimestampSeconds, e.UserAgent, e.Referrer, e.CreatedAt,
	)
	return err
}

func (r *Repo) IncrementViews(ctx context.Context, fileID string) error {
	res, err := r.db.ExecContext(ctx, incrementViewsSQL, fileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("video not found")
	}
	return nil
}

func (r *Repo) Overview(ctx context.Context, topN, recentN int) (*domain.AnalyticsOverview, error) {
	ov := &domain.AnalyticsOverview{
		TopVideos:      []domain.TopVideo{},
		RecentActivity: []domain.ActivityItem{},
	}
	if err := r.db.QueryRowContext(ctx, totalsSQL).Scan(&ov.TotalVideos, &ov.TotalViews, &ov.TotalReactions); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, topVideosSQL, topN)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var v domain.TopVideo
		if err := rows.Scan(&v.VideoID, &v.Title, &v.ViewsCount, &v.ReactionCount); err != nil {
			rows.Close()
			return nil, err
		}
		ov.TopVideos = append(ov.TopVideos, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, recentActivitySQL, recentN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a  domain.ActivityItem
			et string
		)
		if err := rows.Scan(&a.VideoID, &et, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.EventType(et)
		ov.RecentActivity = append(ov.RecentActivity, a)
	}
	return ov, rows.Err()
}
