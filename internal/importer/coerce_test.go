package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"plain", "2019", intPtr(2019)},
		{"float spelling", "2019.0", intPtr(2019)},
		{"whitespace", "  16 ", intPtr(16)},
		{"empty", "", nil},
		{"garbage", "sixteen", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceInt(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 8.7, coerceFloat("8.7", 0))
	assert.Equal(t, 0.0, coerceFloat("", 0))
	assert.Equal(t, 0.0, coerceFloat("great", 0))
	assert.Equal(t, 5.0, coerceFloat("nope", 5.0))
}

func TestCoerceEnum(t *testing.T) {
	valid := []string{"drama", "movie", "series", "anime"}

	assert.Equal(t, "movie", coerceEnum("Movie", valid, "drama"))
	assert.Equal(t, "anime", coerceEnum("  ANIME ", valid, "drama"))
	assert.Equal(t, "drama", coerceEnum("telenovela", valid, "drama"))
	assert.Equal(t, "drama", coerceEnum("", valid, "drama"))
}

func TestCoerceList(t *testing.T) {
	assert.Equal(t, []string{"Netflix", "Viki"}, coerceList("Netflix, Viki"))
	assert.Equal(t, []string{"a"}, coerceList(",, a ,"))
	assert.Equal(t, []string{}, coerceList(""))
	assert.NotNil(t, coerceList(""))
}

func TestCoerceGenres(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"normalized", "Romance, COMEDY", []string{"romance", "comedy"}},
		{"spaces to underscores", "Slice of Life", []string{"slice_of_life"}},
		{"unknown dropped", "romance, cooking", []string{"romance"}},
		{"all unknown", "cooking, knitting", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceGenres(tt.raw))
		})
	}
}

func TestCoercePeopleJSON(t *testing.T) {
	raw := `[{"name":"Hyun Bin","character":"Ri Jeong-hyeok"},{"name":"Son Ye-jin"}]`
	people := coercePeople(raw, "")

	require.Len(t, people, 2)
	assert.Equal(t, "Hyun Bin", people[0].Name)
	assert.Equal(t, "Ri Jeong-hyeok", people[0].Role)
	assert.NotEmpty(t, people[0].ID)
	assert.Equal(t, "Son Ye-jin", people[1].Name)
	assert.Empty(t, people[1].Role)
}

func TestCoercePeopleFallback(t *testing.T) {
	// A cell that is not valid JSON degrades to a comma-separated name list.
	people := coercePeople("not json", "director")
	require.Len(t, people, 1)
	assert.Equal(t, "not json", people[0].Name)
	assert.Equal(t, "director", people[0].Role)
}

func TestCoercePeopleCommaNames(t *testing.T) {
	people := coercePeople("Hyun Bin, Son Ye-jin", "")
	require.Len(t, people, 2)
	assert.Equal(t, "Hyun Bin", people[0].Name)
	assert.Equal(t, "Son Ye-jin", people[1].Name)
}

func TestCoercePeopleEmpty(t *testing.T) {
	people := coercePeople("", "director")
	assert.NotNil(t, people)
	assert.Empty(t, people)
}

func intPtr(n int) *int { return &n }
