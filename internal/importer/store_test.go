package importer

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dramaverse/internal/catalog"
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

func TestSQLStoreInsertAssignsUniqueSlugs(t *testing.T) {
	db := openTestDB(t)
	repo := catalog.NewRepo(db)
	store := NewSQLStore(repo)
	ctx := context.Background()

	first, _ := assembleRow(map[string]string{"title": "Signal", "year": "2016"})
	require.NoError(t, store.Insert(ctx, *first))

	second, _ := assembleRow(map[string]string{"title": "Signal", "year": "2023"})
	require.NoError(t, store.Insert(ctx, *second))

	bySlug, err := repo.GetBySlug(ctx, "signal")
	require.NoError(t, err)
	require.NotNil(t, bySlug)

	suffixed, err := repo.GetBySlug(ctx, "signal-2")
	require.NoError(t, err)
	require.NotNil(t, suffixed)
	assert.NotEqual(t, bySlug.ID, suffixed.ID)
}

func TestSQLStoreFindDuplicate(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLStore(catalog.NewRepo(db))
	ctx := context.Background()

	entry, _ := assembleRow(map[string]string{
		"title": "Misaeng", "year": "2014", "content_type": "drama",
	})
	require.NoError(t, store.Insert(ctx, *entry))

	year2014 := 2014
	year1999 := 1999

	dup, err := store.FindDuplicate(ctx, "MISAENG", &year2014, "drama", false)
	require.NoError(t, err)
	assert.True(t, dup, "case-insensitive title with matching year")

	dup, err = store.FindDuplicate(ctx, "Misaeng", &year1999, "drama", false)
	require.NoError(t, err)
	assert.False(t, dup, "different year is a different entry")

	dup, err = store.FindDuplicate(ctx, "Misaeng", nil, "", false)
	require.NoError(t, err)
	assert.True(t, dup, "no year narrows to title only")

	dup, err = store.FindDuplicate(ctx, "Misaeng", &year2014, "movie", true)
	require.NoError(t, err)
	assert.False(t, dup, "strict mode also matches content type")
}

func TestPipelineCommitAgainstSQLite(t *testing.T) {
	db := openTestDB(t)
	repo := catalog.NewRepo(db)
	jobs := NewJobsRepo(db)
	p := NewPipeline(NewSQLStore(repo), jobs, nil)
	ctx := context.Background()

	table := tableOf(
		map[string]string{"title": "Alpha", "year": "2020"},
		map[string]string{"title": "alpha", "year": "2020"},
		map[string]string{"title": ""},
		map[string]string{"title": "Beta"},
	)

	job := models.ImportJob{ID: "job-sql", AdminUsername: "admin", SourceType: "file",
		Source: "test.csv", Status: models.JobQueued, Errors: []string{},
		StartedAt: time.Now().UTC()}
	require.NoError(t, jobs.Create(ctx, job))

	out, err := p.Commit(ctx, table, job)
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalRows)
	assert.Equal(t, 2, out.SuccessfulImports)
	assert.Equal(t, 2, out.FailedImports)

	stored, err := jobs.Get(ctx, "job-sql")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.JobCompleted, stored.Status)
	assert.Equal(t, 4, stored.ProcessedRows)
	assert.Equal(t, 2, stored.SuccessfulImports)
	assert.NotNil(t, stored.FinishedAt)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
