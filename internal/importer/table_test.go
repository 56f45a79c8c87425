package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	csvData := "Title *,Year,Genres\nVincenzo,2021,\"action, comedy\"\nMoving,2023,fantasy\n"

	table, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "year", "genres"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Vincenzo", table.Rows[0]["title"])
	assert.Equal(t, "action, comedy", table.Rows[0]["genres"])
	assert.Equal(t, "2023", table.Rows[1]["year"])
}

func TestParseCSVRaggedRows(t *testing.T) {
	// Short rows leave trailing cells empty; long rows drop the extras.
	csvData := "title,year\nShort Row\nLong Row,2020,surprise\n"

	table, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "Short Row", table.Rows[0]["title"])
	assert.Equal(t, "", table.Rows[0]["year"])
	assert.Equal(t, "2020", table.Rows[1]["year"])
	assert.NotContains(t, table.Rows[1], "surprise")
}

func TestParseCSVEmptyTable(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("title,year\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestParseFileDispatch(t *testing.T) {
	csvData := "title\nSomething\n"

	table, err := ParseFile(strings.NewReader(csvData), "upload.CSV")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	_, err = ParseFile(strings.NewReader(csvData), "upload.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFile(strings.NewReader(csvData), "noextension")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseXLSXRoundTrip(t *testing.T) {
	data, err := TemplateXLSX()
	require.NoError(t, err)

	table, err := ParseXLSX(strings.NewReader(string(data)))
	require.NoError(t, err)

	assert.Equal(t, "title", table.Columns[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Crash Landing on You", table.Rows[0]["title"])
	assert.Equal(t, "2001", table.Rows[1]["year"])
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{" Title * ", "YEAR", "Content_Type"})
	assert.Equal(t, []string{"title", "year", "content_type"}, got)
}
