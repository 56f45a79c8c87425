package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dramaverse/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q           string // keyword search in title/original title
	Country     string
	Genre       string
	ContentType string
	Year        int
	MinRating   float64
	Sort        string // rating | year | created_at | title
	Limit       int
	Offset      int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const contentColumns = `
	id, slug, title, original_title, poster_url, banner_url, synopsis,
	year, country, content_type, genres, rating, episodes, duration,
	cast_members, crew_members, streaming_platforms, tags, created_at, updated_at
`

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Content, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE id = ?
	`, id)
	return scanContentRow(row)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Content, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE LOWER(slug) = ?
	`, strings.ToLower(strings.TrimSpace(slug)))
	return scanContentRow(row)
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Content, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Content, 0, q.Limit)
	for rows.Next() {
		entry, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, entry models.Content) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO content (`+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contentArgs(entry)...)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, entry models.Content) error {
	entry.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE content SET
			slug = ?, title = ?, original_title = ?, poster_url = ?, banner_url = ?,
			synopsis = ?, year = ?, country = ?, content_type = ?, genres = ?,
			rating = ?, episodes = ?, duration = ?, cast_members = ?, crew_members = ?,
			streaming_platforms = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`,
		entry.Slug, entry.Title, nullString(entry.OriginalTitle), entry.PosterURL,
		nullString(entry.BannerURL), entry.Synopsis, nullInt(entry.Year),
		entry.Country, entry.ContentType, marshalJSON(entry.Genres),
		entry.Rating, nullInt(entry.Episodes), nullInt(entry.Duration),
		marshalJSON(entry.Cast), marshalJSON(entry.Crew),
		marshalJSON(entry.StreamingPlatforms), marshalJSON(entry.Tags),
		entry.UpdatedAt, entry.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Featured returns the top rated entries that have a rating at all.
func (r *Repo) Featured(ctx context.Context, limit int) ([]models.Content, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE rating > 0
		ORDER BY rating DESC, title ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Content, 0, limit)
	for rows.Next() {
		entry, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// DistinctCountries lists every non-placeholder country present in the catalog.
func (r *Repo) DistinctCountries(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT country
		FROM content
		WHERE country != '' AND country != 'N.A'
		ORDER BY country ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct countries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SlugExists does a case-insensitive lookup, mirroring the duplicate-title
// check: two entries may never share a slug differing only by case.
func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `
		SELECT 1 FROM content WHERE LOWER(slug) = ? LIMIT 1
	`, strings.ToLower(slug)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return true, nil
}

func (r *Repo) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM content`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return total, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
// The genre filter is a LIKE search inside the stored JSON array text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + contentColumns + ` FROM content`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM content`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(original_title) LIKE ?)")
		pat := "%" + strings.ToLower(kw) + "%"
		args = append(args, pat, pat)
	}

	if country := strings.TrimSpace(q.Country); country != "" {
		where = append(where, "LOWER(country) = ?")
		args = append(args, strings.ToLower(country))
	}

	if ct := strings.TrimSpace(q.ContentType); ct != "" {
		where = append(where, "content_type = ?")
		args = append(args, strings.ToLower(ct))
	}

	if genre := strings.TrimSpace(q.Genre); genre != "" {
		where = append(where, "genres LIKE ?")
		args = append(args, `%"`+strings.ToLower(genre)+`"%`)
	}

	if q.Year > 0 {
		where = append(where, "year = ?")
		args = append(args, q.Year)
	}

	if q.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, q.MinRating)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY " + orderClause(q.Sort)
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

func orderClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "rating":
		return "rating DESC, title ASC"
	case "year":
		return "year DESC, title ASC"
	case "created_at", "newest":
		return "created_at DESC"
	default:
		return "title ASC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContentRow(row *sql.Row) (*models.Content, error) {
	entry, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanContent(s rowScanner) (*models.Content, error) {
	var (
		entry         models.Content
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

	if err := s.Scan(
		&entry.ID, &entry.Slug, &entry.Title, &originalTitle, &entry.PosterURL,
		&bannerURL, &entry.Synopsis, &year, &entry.Country, &entry.ContentType,
		&genresJSON, &entry.Rating, &episodes, &duration, &castJSON, &crewJSON,
		&platformsJSON, &tagsJSON, &entry.CreatedAt, &entry.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}

	entry.OriginalTitle = originalTitle.String
	entry.BannerURL = bannerURL.String
	if year.Valid {
		y := int(year.Int64)
		entry.Year = &y
	}
	if episodes.Valid {
		e := int(episodes.Int64)
		entry.Episodes = &e
	}
	if duration.Valid {
		d := int(duration.Int64)
		entry.Duration = &d
	}

	entry.Genres = []string{}
	entry.Cast = []models.Person{}
	entry.Crew = []models.Person{}
	entry.StreamingPlatforms = []string{}
	entry.Tags = []string{}
	_ = json.Unmarshal([]byte(genresJSON), &entry.Genres)
	_ = json.Unmarshal([]byte(castJSON), &entry.Cast)
	_ = json.Unmarshal([]byte(crewJSON), &entry.Crew)
	_ = json.Unmarshal([]byte(platformsJSON), &entry.StreamingPlatforms)
	_ = json.Unmarshal([]byte(tagsJSON), &entry.Tags)

	return &entry, nil
}

func contentArgs(entry models.Content) []any {
	return []any{
		entry.ID, entry.Slug, entry.Title, nullString(entry.OriginalTitle),
		entry.PosterURL, nullString(entry.BannerURL), entry.Synopsis,
		nullInt(entry.Year), entry.Country, entry.ContentType,
		marshalJSON(entry.Genres), entry.Rating, nullInt(entry.Episodes),
		nullInt(entry.Duration), marshalJSON(entry.Cast), marshalJSON(entry.Crew),
		marshalJSON(entry.StreamingPlatforms), marshalJSON(entry.Tags),
		entry.CreatedAt, entry.UpdatedAt,
	}
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
