package importer

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dramaverse/internal/auth"
	"dramaverse/internal/live"
	"dramaverse/pkg/models"
)

// Notifier receives the titles of freshly imported entries. The UDP
// broadcaster implements it; tests pass nil.
type Notifier interface {
	NewContent(titles []string)
}

// Broadcaster pushes events to connected live clients.
type Broadcaster interface {
	BroadcastJSON(v any)
}

type Handler struct {
	Pipeline *Pipeline
	Fetcher  *Fetcher
	Jobs     *JobsRepo
	Notify   Notifier
	Events   Broadcaster
	Log      *zap.Logger
}

func NewHandler(pipeline *Pipeline, fetcher *Fetcher, jobs *JobsRepo, notify Notifier, events Broadcaster, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Pipeline: pipeline, Fetcher: fetcher, Jobs: jobs, Notify: notify, Events: events, Log: log}
}

// RegisterAdminRoutes mounts the import endpoints; the caller wraps the
// group with auth and admin middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/preview", h.preview)  // POST /admin/import/preview
	rg.POST("/commit", h.commit)    // POST /admin/import/commit
	rg.GET("/jobs", h.listJobs)     // GET  /admin/import/jobs
	rg.GET("/jobs/:id", h.getJob)   // GET  /admin/import/jobs/:id
	rg.GET("/template", h.template) // GET  /admin/import/template?format=csv|xlsx|json
}

func (h *Handler) preview(c *gin.Context) {
	table, _, _, ok := h.loadTable(c)
	if !ok {
		return
	}

	report, err := h.Pipeline.Preview(c.Request.Context(), table)
	if err != nil {
		h.Log.Error("preview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preview failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) commit(c *gin.Context) {
	table, sourceType, source, ok := h.loadTable(c)
	if !ok {
		return
	}

	claims := auth.MustGetClaims(c)
	job := models.ImportJob{
		ID:            uuid.NewString(),
		AdminUsername: claims.Username,
		SourceType:    sourceType,
		Source:        source,
		Status:        models.JobQueued,
		StartedAt:     time.Now().UTC(),
		Errors:        []string{},
	}
	if h.Jobs != nil {
		if err := h.Jobs.Create(c.Request.Context(), job); err != nil {
			h.Log.Error("create job failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
	}

	out, err := h.Pipeline.Commit(c.Request.Context(), table, job)
	if err != nil {
		h.Log.Error("commit failed", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	if h.Notify != nil && len(out.ImportedTitles) > 0 {
		h.Notify.NewContent(out.ImportedTitles)
	}
	if h.Events != nil {
		go h.Events.BroadcastJSON(live.ImportEvent{
			Type:     "import.completed",
			JobID:    job.ID,
			Imported: out.SuccessfulImports,
			Failed:   out.FailedImports,
			At:       time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":             job.ID,
		"total_rows":         out.TotalRows,
		"successful_imports": out.SuccessfulImports,
		"failed_imports":     out.FailedImports,
		"errors":             out.Errors,
		"imported_titles":    out.ImportedTitles,
	})
}

func (h *Handler) getJob(c *gin.Context) {
	job, err := h.Jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get job failed"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.Jobs.Recent(c.Request.Context(), parseInt(c.Query("limit"), 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list jobs failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *Handler) template(c *gin.Context) {
	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "json":
		c.JSON(http.StatusOK, gin.H{
			"columns":          TemplateColumns(),
			"required_columns": columnNames(true),
			"optional_columns": columnNames(false),
			"sample_rows":      templateSamples(),
		})
	case "csv":
		data, err := TemplateCSV()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "template failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="import_template.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := TemplateXLSX()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "template failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="import_template.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, csv or xlsx"})
	}
}

// loadTable reads the import source from the request: an uploaded file
// wins, then a url form value. File-level problems are answered here.
func (h *Handler) loadTable(c *gin.Context) (*Table, string, string, bool) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return nil, "", "", false
		}
		defer f.Close()

		table, err := ParseFile(f, file.Filename)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, "", "", false
		}
		return table, "file", file.Filename, true
	}

	url := strings.TrimSpace(c.PostForm("url"))
	if url == "" {
		url = strings.TrimSpace(c.Query("url"))
	}
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide a file upload or a url"})
		return nil, "", "", false
	}

	table, err := h.Fetcher.Fetch(c.Request.Context(), url)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "fetch ") {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, "", "", false
	}
	return table, "url", url, true
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
