package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dramaverse/pkg/models"
)

// memStore is an in-memory CatalogStore. Duplicate detection sees rows
// inserted earlier in the same run, like the real store does.
type memStore struct {
	inserted     []models.Content
	panicOnTitle string
	failOnTitle  string
}

func (m *memStore) FindDuplicate(_ context.Context, title string, year *int, contentType string, matchType bool) (bool, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	for _, entry := range m.inserted {
		if strings.ToLower(entry.Title) != title {
			continue
		}
		if year != nil && (entry.Year == nil || *entry.Year != *year) {
			continue
		}
		if matchType && entry.ContentType != contentType {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (m *memStore) Insert(_ context.Context, entry models.Content) error {
	if entry.Title == m.panicOnTitle {
		panic("storage blew up")
	}
	if entry.Title == m.failOnTitle {
		return fmt.Errorf("disk full")
	}
	m.inserted = append(m.inserted, entry)
	return nil
}

func tableOf(rows ...map[string]string) *Table {
	return &Table{
		Columns: []string{"title", "year", "content_type"},
		Rows:    rows,
	}
}

func TestPreviewCountsAndIssues(t *testing.T) {
	store := &memStore{}
	p := NewPipeline(store, nil, nil)

	table := tableOf(
		map[string]string{"title": "Signal", "year": "2016"},
		map[string]string{"title": "   "},
		map[string]string{"title": "Misaeng", "year": "2014"},
	)

	report, err := p.Preview(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.WillImport)
	assert.Equal(t, 1, report.WillSkip)
	assert.Equal(t, table.Columns, report.DetectedColumns)
	require.Len(t, report.Preview, 3)

	assert.True(t, report.Preview[0].Valid)
	assert.Equal(t, 2, report.Preview[0].Row)
	assert.False(t, report.Preview[1].Valid)
	assert.Contains(t, report.Preview[1].Issues[0], "missing title")

	// Preview must not write anything
	assert.Empty(t, store.inserted)
}

func TestPreviewDetectsExistingDuplicates(t *testing.T) {
	year := 2016
	store := &memStore{inserted: []models.Content{{Title: "Signal", Year: &year, ContentType: "drama"}}}
	p := NewPipeline(store, nil, nil)

	report, err := p.Preview(context.Background(), tableOf(
		map[string]string{"title": "SIGNAL", "year": "2016"},
		map[string]string{"title": "Signal", "year": "1999"},
	))
	require.NoError(t, err)

	// Same title and year is a duplicate regardless of case; a different
	// year is a distinct entry.
	assert.Equal(t, 1, report.WillSkip)
	assert.Equal(t, 1, report.WillImport)
	assert.Contains(t, report.Preview[0].Issues[0], "duplicate")
}

func TestPreviewCapsRowsNotCounts(t *testing.T) {
	rows := make([]map[string]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, map[string]string{"title": fmt.Sprintf("Show %d", i)})
	}
	p := NewPipeline(&memStore{}, nil, nil)

	report, err := p.Preview(context.Background(), tableOf(rows...))
	require.NoError(t, err)

	assert.Equal(t, 60, report.TotalRows)
	assert.Equal(t, 60, report.WillImport)
	assert.Len(t, report.Preview, previewRowCap)
}

func TestCommitCountsAlwaysBalance(t *testing.T) {
	store := &memStore{failOnTitle: "Broken"}
	p := NewPipeline(store, nil, nil)

	table := tableOf(
		map[string]string{"title": "Alpha"},
		map[string]string{"title": ""},
		map[string]string{"title": "Broken"},
		map[string]string{"title": "Beta"},
	)

	out, err := p.Commit(context.Background(), table, models.ImportJob{ID: "job-1"})
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalRows)
	assert.Equal(t, 2, out.SuccessfulImports)
	assert.Equal(t, 2, out.FailedImports)
	assert.Equal(t, out.TotalRows, out.SuccessfulImports+out.FailedImports)
	assert.Equal(t, []string{"Alpha", "Beta"}, out.ImportedTitles)
	require.Len(t, out.Errors, 2)
	assert.Contains(t, out.Errors[0], "row 3")
	assert.Contains(t, out.Errors[1], "row 4")
}

func TestRowNumbersMatchSpreadsheetLines(t *testing.T) {
	p := NewPipeline(&memStore{}, nil, nil)

	// The header occupies line 1, so the only data row sits on line 2.
	out, err := p.Commit(context.Background(), tableOf(
		map[string]string{"title": ""},
	), models.ImportJob{ID: "job-5"})
	require.NoError(t, err)

	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "row 2")

	report, err := p.Preview(context.Background(), tableOf(
		map[string]string{"title": "Signal"},
		map[string]string{"title": "Misaeng"},
	))
	require.NoError(t, err)
	require.Len(t, report.Preview, 2)
	assert.Equal(t, 2, report.Preview[0].Row)
	assert.Equal(t, 3, report.Preview[1].Row)
}

func TestCommitReportsStoredTitles(t *testing.T) {
	store := &memStore{}
	p := NewPipeline(store, nil, nil)

	out, err := p.Commit(context.Background(), tableOf(
		map[string]string{"title": "  Signal  "},
	), models.ImportJob{ID: "job-6"})
	require.NoError(t, err)

	// The reported title is the one that was written, not the raw cell.
	require.Len(t, store.inserted, 1)
	assert.Equal(t, []string{"Signal"}, out.ImportedTitles)
	assert.Equal(t, store.inserted[0].Title, out.ImportedTitles[0])
}

func TestCommitSkipsDuplicateInSameBatch(t *testing.T) {
	store := &memStore{}
	p := NewPipeline(store, nil, nil)

	table := tableOf(
		map[string]string{"title": "Twins", "year": "2020"},
		map[string]string{"title": "twins", "year": "2020"},
	)

	out, err := p.Commit(context.Background(), table, models.ImportJob{ID: "job-2"})
	require.NoError(t, err)

	assert.Equal(t, 1, out.SuccessfulImports)
	assert.Equal(t, 1, out.FailedImports)
	require.Len(t, store.inserted, 1)
	assert.Contains(t, out.Errors[0], "duplicate")
}

func TestCommitRecoversFromRowPanic(t *testing.T) {
	store := &memStore{panicOnTitle: "Cursed"}
	p := NewPipeline(store, nil, nil)

	table := tableOf(
		map[string]string{"title": "Fine"},
		map[string]string{"title": "Cursed"},
		map[string]string{"title": "Also Fine"},
	)

	out, err := p.Commit(context.Background(), table, models.ImportJob{ID: "job-3"})
	require.NoError(t, err)

	assert.Equal(t, 2, out.SuccessfulImports)
	assert.Equal(t, 1, out.FailedImports)
	assert.Contains(t, out.Errors[0], "internal error")
}

func TestCommitBoundsErrorList(t *testing.T) {
	rows := make([]map[string]string, 0, maxReportedErrors+50)
	for i := 0; i < maxReportedErrors+50; i++ {
		rows = append(rows, map[string]string{"title": ""})
	}
	p := NewPipeline(&memStore{}, nil, nil)

	out, err := p.Commit(context.Background(), tableOf(rows...), models.ImportJob{ID: "job-4"})
	require.NoError(t, err)

	assert.Equal(t, maxReportedErrors+50, out.FailedImports)
	assert.Len(t, out.Errors, maxReportedErrors)
}
