package models

import "time"

type WatchlistItem struct {
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	UpdatedAt time.Time `json:"updated_at"`
}
