package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"dramaverse/pkg/models"
)

// SimilarityScore weighs how close two catalog entries are: two points per
// shared genre, one for matching content type, one for matching country.
// The "N.A" country placeholder never counts as a match.
func SimilarityScore(a, b models.Content) int {
	score := 0
	seen := make(map[string]bool, len(a.Genres))
	for _, g := range a.Genres {
		seen[g] = true
	}
	for _, g := range b.Genres {
		if seen[g] {
			score += 2
		}
	}
	if a.ContentType == b.ContentType {
		score++
	}
	if a.Country == b.Country && a.Country != "" && a.Country != "N.A" {
		score++
	}
	return score
}

// Similar returns the closest entries to the given one, genre-overlap
// candidates fetched with an any-match LIKE and scored in memory.
func (r *Repo) Similar(ctx context.Context, entry models.Content, limit int) ([]models.Content, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var where []string
	var args []any
	for _, g := range entry.Genres {
		where = append(where, "genres LIKE ?")
		args = append(args, `%"`+strings.ToLower(g)+`"%`)
	}
	// no genres: fall back to same content type
	if len(where) == 0 {
		where = append(where, "content_type = ?")
		args = append(args, entry.ContentType)
	}
	args = append(args, entry.ID)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE (`+strings.Join(where, " OR ")+`) AND id != ?
		LIMIT 500
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("similar query: %w", err)
	}
	defer rows.Close()

	var candidates []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := SimilarityScore(entry, candidates[i]), SimilarityScore(entry, candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].Rating > candidates[j].Rating
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// TrendingEntry pairs a catalog entry with its recent activity score.
type TrendingEntry struct {
	models.Content
	TrendScore int `json:"trend_score"`
}

// Trending ranks entries by recent watchlist adds (double weight) plus
// recent review volume.
func (r *Repo) Trending(ctx context.Context, window time.Duration, limit int) ([]TrendingEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	since := time.Now().UTC().Add(-window)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+contentColumns+`,
			COALESCE(w.cnt, 0) * 2 + COALESCE(rv.cnt, 0) AS trend_score
		FROM content
		LEFT JOIN (
			SELECT content_id, COUNT(*) AS cnt
			FROM watchlist
			WHERE updated_at >= ?
			GROUP BY content_id
		) w ON w.content_id = content.id
		LEFT JOIN (
			SELECT content_id, COUNT(*) AS cnt
			FROM reviews
			WHERE timestamp >= ?
			GROUP BY content_id
		) rv ON rv.content_id = content.id
		WHERE COALESCE(w.cnt, 0) + COALESCE(rv.cnt, 0) > 0
		ORDER BY trend_score DESC, rating DESC
		LIMIT ?
	`, since, since, limit)
	if err != nil {
		return nil, fmt.Errorf("trending query: %w", err)
	}
	defer rows.Close()

	var out []TrendingEntry
	for rows.Next() {
		var te TrendingEntry
		if err := scanTrending(rows, &te); err != nil {
			return nil, err
		}
		out = append(out, te)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func scanTrending(rows rowScanner, te *TrendingEntry) error {
	// same columns as scanContent plus the score
	var (
		originalTitle sql.NullString
		bannerURL     sql.NullString
		year          sql.NullInt64
		episodes      sql.NullInt64
		duration      sql.NullInt64
		genresJSON    string
		castJSON      string
		crewJSON      string
		platformsJSON string
		tagsJSON      string
	)
	if err := rows.Scan(
		&te.ID, &te.Slug, &te.Title, &originalTitle, &te.PosterURL,
		&bannerURL, &te.Synopsis, &year, &te.Country, &te.ContentType,
		&genresJSON, &te.Rating, &episodes, &duration, &castJSON, &crewJSON,
		&platformsJSON, &tagsJSON, &te.CreatedAt, &te.UpdatedAt, &te.TrendScore,
	); err != nil {
		return fmt.Errorf("scan trending: %w", err)
	}
	te.OriginalTitle = originalTitle.String
	te.BannerURL = bannerURL.String
	if year.Valid {
		y := int(year.Int64)
		te.Year = &y
	}
	if episodes.Valid {
		e := int(episodes.Int64)
		te.Episodes = &e
	}
	if duration.Valid {
		d := int(duration.Int64)
		te.Duration = &d
	}
	te.Genres = []string{}
	te.Cast = []models.Person{}
	te.Crew = []models.Person{}
	te.StreamingPlatforms = []string{}
	te.Tags = []string{}
	_ = json.Unmarshal([]byte(genresJSON), &te.Genres)
	_ = json.Unmarshal([]byte(castJSON), &te.Cast)
	_ = json.Unmarshal([]byte(crewJSON), &te.Crew)
	_ = json.Unmarshal([]byte(platformsJSON), &te.StreamingPlatforms)
	_ = json.Unmarshal([]byte(tagsJSON), &te.Tags)
	return nil
}
