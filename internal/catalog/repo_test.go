package catalog

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dramaverse/pkg/database"
	"dramaverse/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	require.NoError(t, database.MigrateSQL(db, string(schema)))

	return db
}

func testEntry(id, slug, title string) models.Content {
	year := 2020
	now := time.Now().UTC()
	return models.Content{
		ID:          id,
		Slug:        slug,
		Title:       title,
		PosterURL:   models.PlaceholderPoster,
		Synopsis:    "N.A",
		Year:        &year,
		Country:     "South Korea",
		ContentType: models.TypeDrama,
		Genres:      []string{"romance", "comedy"},
		Rating:      8.2,
		Cast: []models.Person{
			{ID: "p-1", Name: "Hyun Bin", Role: "Ri Jeong-hyeok"},
		},
		Crew:               []models.Person{},
		StreamingPlatforms: []string{"Netflix"},
		Tags:               []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestRepoInsertAndGetRoundTrip(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	entry := testEntry("c-1", "crash-landing-on-you", "Crash Landing on You")
	require.NoError(t, repo.Insert(ctx, entry))

	got, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, entry.Title, got.Title)
	assert.Equal(t, entry.Slug, got.Slug)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2020, *got.Year)
	assert.Equal(t, []string{"romance", "comedy"}, got.Genres)
	require.Len(t, got.Cast, 1)
	assert.Equal(t, "Hyun Bin", got.Cast[0].Name)
	assert.Equal(t, []string{"Netflix"}, got.StreamingPlatforms)
	assert.NotNil(t, got.Tags)
	assert.NotNil(t, got.Crew)
}

func TestRepoGetMissingIsNil(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepoListFilters(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	a := testEntry("c-1", "a", "Alpha Drama")
	b := testEntry("c-2", "b", "Beta Movie")
	b.ContentType = models.TypeMovie
	b.Country = "Japan"
	b.Genres = []string{"thriller"}
	b.Rating = 6.0
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	items, err := repo.List(ctx, ListQuery{ContentType: "movie"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Beta Movie", items[0].Title)

	items, err = repo.List(ctx, ListQuery{Genre: "romance"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Alpha Drama", items[0].Title)

	items, err = repo.List(ctx, ListQuery{MinRating: 7})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Alpha Drama", items[0].Title)

	total, err := repo.Count(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUniqueSlugSuffixes(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testEntry("c-1", "signal", "Signal")))
	require.NoError(t, repo.Insert(ctx, testEntry("c-2", "signal-2", "Signal")))

	slug, err := repo.UniqueSlug(ctx, "Signal")
	require.NoError(t, err)
	assert.Equal(t, "signal-3", slug)

	slug, err = repo.UniqueSlug(ctx, "Brand New")
	require.NoError(t, err)
	assert.Equal(t, "brand-new", slug)
}

func TestRepoDelete(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testEntry("c-1", "x", "X")))

	ok, err := repo.Delete(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "c-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
