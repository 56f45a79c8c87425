package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dramaverse/pkg/models"
)

func TestSimilarityScore(t *testing.T) {
	base := models.Content{
		ContentType: "drama",
		Country:     "South Korea",
		Genres:      []string{"romance", "comedy"},
	}

	tests := []struct {
		name  string
		other models.Content
		want  int
	}{
		{
			"identical profile",
			models.Content{ContentType: "drama", Country: "South Korea", Genres: []string{"romance", "comedy"}},
			6, // 2 genres * 2 + type + country
		},
		{
			"one shared genre",
			models.Content{ContentType: "movie", Country: "Japan", Genres: []string{"comedy", "horror"}},
			2,
		},
		{
			"type and country only",
			models.Content{ContentType: "drama", Country: "South Korea", Genres: []string{"thriller"}},
			2,
		},
		{
			"nothing shared",
			models.Content{ContentType: "anime", Country: "Japan", Genres: []string{"action"}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimilarityScore(base, tt.other))
		})
	}
}

func TestSimilarityScorePlaceholderCountry(t *testing.T) {
	a := models.Content{ContentType: "drama", Country: "N.A"}
	b := models.Content{ContentType: "drama", Country: "N.A"}

	// Two unknown countries are not a match; only the type counts.
	assert.Equal(t, 1, SimilarityScore(a, b))
}

func TestBuildListSQL(t *testing.T) {
	sqlStr, args := buildListSQL(ListQuery{
		Q:           "signal",
		Country:     "South Korea",
		Genre:       "Thriller",
		ContentType: "drama",
		Year:        2016,
		MinRating:   8,
		Limit:       10,
		Offset:      5,
	}, false)

	assert.Contains(t, sqlStr, "LOWER(title) LIKE ?")
	assert.Contains(t, sqlStr, "LOWER(country) = ?")
	assert.Contains(t, sqlStr, "content_type = ?")
	assert.Contains(t, sqlStr, "genres LIKE ?")
	assert.Contains(t, sqlStr, "year = ?")
	assert.Contains(t, sqlStr, "rating >= ?")
	assert.Contains(t, sqlStr, "LIMIT ? OFFSET ?")

	// keyword pattern twice, then country, type, genre, year, rating, limit, offset
	assert.Len(t, args, 9)
	assert.Equal(t, "%signal%", args[0])
	assert.Equal(t, `%"thriller"%`, args[4])
	assert.Equal(t, 10, args[7])
	assert.Equal(t, 5, args[8])
}

func TestBuildListSQLDefaults(t *testing.T) {
	sqlStr, args := buildListSQL(ListQuery{}, false)

	assert.NotContains(t, sqlStr, "WHERE")
	assert.Contains(t, sqlStr, "ORDER BY")
	assert.Equal(t, []any{20, 0}, args)
}

func TestBuildListSQLCountOnly(t *testing.T) {
	sqlStr, args := buildListSQL(ListQuery{Country: "Japan"}, true)

	assert.Contains(t, sqlStr, "SELECT COUNT(*)")
	assert.NotContains(t, sqlStr, "LIMIT")
	assert.Equal(t, []any{"japan"}, args)
}
