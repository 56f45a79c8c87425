package feeds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Feed is a remote spreadsheet the catalog is periodically topped up
// from.
type Feed struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Enabled     bool       `json:"enabled"`
	LastStatus  string     `json:"last_status,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, feed Feed) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO feeds (id, name, url, enabled)
		VALUES (?, ?, ?, ?)
	`, feed.ID, feed.Name, feed.URL, boolToInt(feed.Enabled))
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Feed, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, url, enabled, last_status, last_error, last_fetched, created_at
		FROM feeds
		WHERE id = ?
	`, id)
	return scanFeedRow(row)
}

func (r *Repo) List(ctx context.Context, enabledOnly bool) ([]Feed, error) {
	query := `
		SELECT id, name, url, enabled, last_status, last_error, last_fetched, created_at
		FROM feeds
	`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	out := []Feed{}
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *feed)
	}
	return out, rows.Err()
}

func (r *Repo) SetEnabled(ctx context.Context, id string, enabled bool) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE feeds SET enabled = ? WHERE id = ?
	`, boolToInt(enabled), id)
	if err != nil {
		return false, fmt.Errorf("update feed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete feed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RecordResult stores the outcome of one refresh attempt.
func (r *Repo) RecordResult(ctx context.Context, id, status, errMsg string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE feeds
		SET last_status = ?, last_error = ?, last_fetched = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("record feed result: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedRow(row *sql.Row) (*Feed, error) {
	feed, err := scanFeed(row)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return feed, err
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var enabled int
	var status, lastErr sql.NullString
	var fetched sql.NullTime

	err := row.Scan(&feed.ID, &feed.Name, &feed.URL, &enabled, &status, &lastErr, &fetched, &feed.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan feed: %w", err)
	}

	feed.Enabled = enabled != 0
	feed.LastStatus = status.String
	feed.LastError = lastErr.String
	if fetched.Valid {
		t := fetched.Time
		feed.LastFetched = &t
	}
	return &feed, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
