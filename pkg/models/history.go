package models

import "time"

type WatchCheckpoint struct {
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Episode   int       `json:"episode"`
	At        time.Time `json:"at"`
}
