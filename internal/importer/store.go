package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dramaverse/internal/catalog"
	"dramaverse/pkg/models"
)

// CatalogStore is the storage capability the pipeline needs. It is
// injected rather than reached through a package-level handle so tests
// can run the pipeline against a fake.
type CatalogStore interface {
	// FindDuplicate reports whether an entry with the same title (case
	// insensitive) already exists. When the candidate has a year the
	// lookup narrows to it; matchType additionally narrows to the
	// content type (the stricter commit-time check).
	FindDuplicate(ctx context.Context, title string, year *int, contentType string, matchType bool) (bool, error)
	Insert(ctx context.Context, entry models.Content) error
}

// SQLStore backs the pipeline with the catalog repository. Inserts go
// through the repo so imported entries get unique slugs like any other.
type SQLStore struct {
	Catalog *catalog.Repo
}

func NewSQLStore(repo *catalog.Repo) *SQLStore {
	return &SQLStore{Catalog: repo}
}

func (s *SQLStore) FindDuplicate(ctx context.Context, title string, year *int, contentType string, matchType bool) (bool, error) {
	query := `SELECT 1 FROM content WHERE LOWER(title) = ?`
	args := []any{strings.ToLower(strings.TrimSpace(title))}

	if year != nil {
		query += ` AND year = ?`
		args = append(args, *year)
	}
	if matchType && contentType != "" {
		query += ` AND content_type = ?`
		args = append(args, contentType)
	}
	query += ` LIMIT 1`

	var one int
	err := s.Catalog.DB.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find duplicate: %w", err)
	}
	return true, nil
}

func (s *SQLStore) Insert(ctx context.Context, entry models.Content) error {
	slug, err := s.Catalog.UniqueSlug(ctx, entry.Title)
	if err != nil {
		return fmt.Errorf("slug for import: %w", err)
	}
	entry.Slug = slug
	return s.Catalog.Insert(ctx, entry)
}
