package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "title,year\nSignal,2016\n"

func csvServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCSVWithQueryString(t *testing.T) {
	srv := csvServer(t)
	f := NewFetcher(0)

	table, err := f.Fetch(context.Background(), srv.URL+"/export.csv?token=abc")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Signal", table.Rows[0]["title"])
}

func TestFetchDefaultsToCSV(t *testing.T) {
	srv := csvServer(t)
	f := NewFetcher(0)

	// No extension at all: the remote source is read as CSV.
	table, err := f.Fetch(context.Background(), srv.URL+"/feeds/42")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2016", table.Rows[0]["year"])
}

func TestFetchXLSXByPathSuffix(t *testing.T) {
	book, err := TemplateXLSX()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(book)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(0)
	table, err := f.Fetch(context.Background(), srv.URL+"/template.xlsx?dl=1")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Crash Landing on You", table.Rows[0]["title"])
}

func TestFetchReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(0)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}
