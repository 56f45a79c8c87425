package watchlist

import (
	"context"
	"database/sql"
	"os"
	"testing"

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

	// foreign keys need real parents
	_, err = db.Exec(`
		INSERT INTO users (id, username, email, password_hash) VALUES ('u-1', 'mina', 'mina@example.com', 'x');
		INSERT INTO content (id, slug, title, poster_url, synopsis, country, content_type, genres, rating,
			cast_members, crew_members, streaming_platforms, tags, created_at, updated_at)
		VALUES ('c-1', 'signal', 'Signal', '', 'N.A', 'South Korea', 'drama', '[]', 0,
			'[]', '[]', '[]', '[]', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`)
	require.NoError(t, err)

	return db
}

func TestUpsertThenUpdate(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.WatchlistItem{
		UserID: "u-1", ContentID: "c-1", Status: "watching", Progress: 3,
	}))

	got, err := repo.Get(ctx, "u-1", "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "watching", got.Status)
	assert.Equal(t, 3, got.Progress)

	// Upserting again overwrites, it does not duplicate
	require.NoError(t, repo.Upsert(ctx, models.WatchlistItem{
		UserID: "u-1", ContentID: "c-1", Status: "completed", Progress: 16,
	}))

	items, total, err := repo.List(ctx, "u-1", "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "completed", items[0].Status)
	assert.Equal(t, 16, items[0].Progress)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.WatchlistItem{
		UserID: "u-1", ContentID: "c-1", Status: "plan_to_watch",
	}))

	items, total, err := repo.List(ctx, "u-1", "plan_to_watch", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	items, total, err = repo.List(ctx, "u-1", "dropped", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
}

func TestDelete(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.WatchlistItem{
		UserID: "u-1", ContentID: "c-1", Status: "watching",
	}))

	ok, err := repo.Delete(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "plan_to_watch", normalizeStatus("Plan To Watch"))
	assert.Equal(t, "on_hold", normalizeStatus("on hold"))
	assert.Equal(t, "watching", normalizeStatus(" WATCHING "))
	assert.Equal(t, "", normalizeStatus("binging"))
}
