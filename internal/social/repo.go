package social

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dramaverse/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Follow records followerID following followeeID. Following someone
// twice is a no-op.
func (r *Repo) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES (?, ?)
		ON CONFLICT(follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

func (r *Repo) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM follows
		WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Following lists who userID follows, newest first.
func (r *Repo) Following(ctx context.Context, userID string, limit, offset int) ([]models.Follow, error) {
	return r.list(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		WHERE follower_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
}

// Followers lists who follows userID, newest first.
func (r *Repo) Followers(ctx context.Context, userID string, limit, offset int) ([]models.Follow, error) {
	return r.list(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		WHERE followee_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
}

func (r *Repo) Counts(ctx context.Context, userID string) (following int, followers int, err error) {
	if err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE follower_id = ?
	`, userID).Scan(&following); err != nil {
		return 0, 0, fmt.Errorf("count following: %w", err)
	}
	if err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE followee_id = ?
	`, userID).Scan(&followers); err != nil {
		return 0, 0, fmt.Errorf("count followers: %w", err)
	}
	return following, followers, nil
}

func (r *Repo) list(ctx context.Context, query, userID string, limit, offset int) ([]models.Follow, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	out := make([]models.Follow, 0, limit)
	for rows.Next() {
		var f models.Follow
		var created time.Time
		if err := rows.Scan(&f.FollowerID, &f.FolloweeID, &created); err != nil {
			return nil, fmt.Errorf("scan follow row: %w", err)
		}
		f.CreatedAt = created
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
