package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dramaverse/pkg/models"
)

func TestAssembleRowFull(t *testing.T) {
	row := map[string]string{
		"title":               "Parasite",
		"original_title":      "기생충",
		"synopsis":            "A poor family schemes its way into a rich household.",
		"year":                "2019",
		"country":             "South Korea",
		"content_type":        "movie",
		"genres":              "Thriller, Drama",
		"rating":              "8.5",
		"duration":            "132",
		"cast":                `[{"name":"Song Kang-ho","character":"Ki-taek"}]`,
		"crew":                "Bong Joon-ho",
		"streaming_platforms": "Hulu",
		"tags":                "oscar, class",
	}

	entry, rowErr := assembleRow(row)
	require.Nil(t, rowErr)
	require.NotNil(t, entry)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Parasite", entry.Title)
	assert.Equal(t, "기생충", entry.OriginalTitle)
	require.NotNil(t, entry.Year)
	assert.Equal(t, 2019, *entry.Year)
	assert.Equal(t, "movie", entry.ContentType)
	assert.Equal(t, []string{"thriller", "drama"}, entry.Genres)
	assert.Equal(t, 8.5, entry.Rating)
	assert.Nil(t, entry.Episodes)
	require.NotNil(t, entry.Duration)
	assert.Equal(t, 132, *entry.Duration)

	require.Len(t, entry.Cast, 1)
	assert.Equal(t, "Song Kang-ho", entry.Cast[0].Name)
	assert.Equal(t, "Ki-taek", entry.Cast[0].Role)

	require.Len(t, entry.Crew, 1)
	assert.Equal(t, "Bong Joon-ho", entry.Crew[0].Name)
	assert.Equal(t, "director", entry.Crew[0].Role)

	assert.Equal(t, []string{"Hulu"}, entry.StreamingPlatforms)
	assert.Equal(t, []string{"oscar", "class"}, entry.Tags)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAssembleRowDefaults(t *testing.T) {
	entry, rowErr := assembleRow(map[string]string{"title": "Untested Show"})
	require.Nil(t, rowErr)
	require.NotNil(t, entry)

	assert.Equal(t, models.PlaceholderPoster, entry.PosterURL)
	assert.Equal(t, "N.A", entry.Synopsis)
	assert.Equal(t, "N.A", entry.Country)
	assert.Equal(t, models.TypeDrama, entry.ContentType)
	assert.Equal(t, 0.0, entry.Rating)
	assert.Nil(t, entry.Year)
	assert.Empty(t, entry.Genres)
	assert.NotNil(t, entry.Genres)
	assert.NotNil(t, entry.Cast)
	assert.NotNil(t, entry.Crew)
}

func TestAssembleRowMissingTitle(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
	}{
		{"absent", map[string]string{"year": "2020"}},
		{"empty", map[string]string{"title": ""}},
		{"whitespace", map[string]string{"title": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, rowErr := assembleRow(tt.row)
			assert.Nil(t, entry)
			require.NotNil(t, rowErr)
			assert.Contains(t, rowErr.Message, "missing title")
		})
	}
}

func TestAssembleRowBadCellsStillImport(t *testing.T) {
	// Everything except the title degrades to a default instead of
	// rejecting the row.
	entry, rowErr := assembleRow(map[string]string{
		"title":        "Messy Row",
		"year":         "next year",
		"rating":       "amazing",
		"content_type": "telenovela",
		"genres":       "cooking",
		"episodes":     "many",
	})
	require.Nil(t, rowErr)
	require.NotNil(t, entry)

	assert.Nil(t, entry.Year)
	assert.Equal(t, 0.0, entry.Rating)
	assert.Equal(t, models.TypeDrama, entry.ContentType)
	assert.Empty(t, entry.Genres)
	assert.Nil(t, entry.Episodes)
}
