package importer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnNamesSplit(t *testing.T) {
	assert.Equal(t, []string{"title"}, columnNames(true))

	optional := columnNames(false)
	assert.Len(t, optional, len(TemplateColumns())-1)
	assert.NotContains(t, optional, "title")
	assert.Contains(t, optional, "genres")
}

func TestTemplateJSONShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(nil, nil, nil, nil, nil, nil)
	h.RegisterAdminRoutes(router.Group("/admin/import"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/import/template?format=json", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Columns         []TemplateColumn `json:"columns"`
		RequiredColumns []string         `json:"required_columns"`
		OptionalColumns []string         `json:"optional_columns"`
		SampleRows      [][]string       `json:"sample_rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Columns, 16)
	assert.Equal(t, []string{"title"}, body.RequiredColumns)
	assert.Len(t, body.OptionalColumns, 15)
	require.Len(t, body.SampleRows, 2)
	assert.Equal(t, "Crash Landing on You", body.SampleRows[0][0])
}
