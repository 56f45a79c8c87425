package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"dramaverse/pkg/models"
)

// RowError is a recoverable per-row failure. Row is the spreadsheet
// line number: the header is line 1, the first data row is row 2.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return e.Message
}

// assembleRow turns one raw row into a catalog entry candidate. The only
// rejection is a missing title; every other field coerces to its default.
// Unknown columns are ignored, absent columns behave like empty cells.
func assembleRow(row map[string]string) (*models.Content, *RowError) {
	title := strings.TrimSpace(row["title"])
	if title == "" {
		return nil, &RowError{Message: "missing title"}
	}

	now := time.Now().UTC()
	entry := &models.Content{
		ID:                 uuid.NewString(),
		Title:              title,
		OriginalTitle:      row["original_title"],
		PosterURL:          row["poster_url"],
		BannerURL:          row["banner_url"],
		Synopsis:           row["synopsis"],
		Year:               coerceInt(row["year"]),
		Country:            row["country"],
		ContentType:        coerceEnum(row["content_type"], models.ContentTypes(), models.TypeDrama),
		Genres:             coerceGenres(row["genres"]),
		Rating:             coerceFloat(row["rating"], 0.0),
		Episodes:           coerceInt(row["episodes"]),
		Duration:           coerceInt(row["duration"]),
		Cast:               coercePeople(row["cast"], ""),
		Crew:               coercePeople(row["crew"], "director"),
		StreamingPlatforms: coerceList(row["streaming_platforms"]),
		Tags:               coerceList(row["tags"]),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if entry.PosterURL == "" {
		entry.PosterURL = models.PlaceholderPoster
	}
	if entry.Synopsis == "" {
		entry.Synopsis = "N.A"
	}
	if entry.Country == "" {
		entry.Country = "N.A"
	}

	return entry, nil
}
