package live

import "time"

// WatchlistEvent announces a watchlist change to connected clients.
type WatchlistEvent struct {
	Type      string    `json:"type"` // "watchlist.update" or "watchlist.delete"
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Status    string    `json:"status,omitempty"`
	Progress  int       `json:"progress,omitempty"`
	At        time.Time `json:"at"`
}

// ImportEvent announces a finished bulk import.
type ImportEvent struct {
	Type     string    `json:"type"` // "import.completed"
	JobID    string    `json:"job_id"`
	Imported int       `json:"imported"`
	Failed   int       `json:"failed"`
	At       time.Time `json:"at"`
}
