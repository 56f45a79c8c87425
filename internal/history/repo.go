package history

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

func (r *Repo) Add(ctx context.Context, entry models.WatchCheckpoint) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO watch_history (user_id, content_id, episode, at)
		VALUES (?, ?, ?, ?)
	`, entry.UserID, entry.ContentID, entry.Episode, entry.At)
	if err != nil {
		return fmt.Errorf("insert watch checkpoint: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID, contentID string, limit, offset int) ([]models.WatchCheckpoint, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM watch_history
		WHERE user_id = ? AND content_id = ?
	`, userID, contentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count watch history: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, content_id, episode, at
		FROM watch_history
		WHERE user_id = ? AND content_id = ?
		ORDER BY at DESC
		LIMIT ? OFFSET ?
	`, userID, contentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list watch history: %w", err)
	}
	defer rows.Close()

	out := make([]models.WatchCheckpoint, 0, limit)
	for rows.Next() {
		var entry models.WatchCheckpoint
		var at time.Time
		if err := rows.Scan(&entry.UserID, &entry.ContentID, &entry.Episode, &at); err != nil {
			return nil, 0, fmt.Errorf("scan watch checkpoint: %w", err)
		}
		entry.At = at
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows watch history: %w", err)
	}

	return out, total, nil
}
