package catalog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dramaverse/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                  // GET /content
	rg.GET("/featured", h.featured)     // GET /content/featured
	rg.GET("/trending", h.trending)     // GET /content/trending
	rg.GET("/slug/:slug", h.getBySlug)  // GET /content/slug/:slug
	rg.GET("/:id", h.getByID)           // GET /content/:id
	rg.GET("/:id/similar", h.similar)   // GET /content/:id/similar
}

// RegisterMetaRoutes exposes the filter vocabularies at the API root.
func (h *Handler) RegisterMetaRoutes(rg *gin.RouterGroup) {
	rg.GET("/countries", h.countries)
	rg.GET("/genres", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"genres": models.Genres()})
	})
	rg.GET("/content-types", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"content_types": models.ContentTypes()})
	})
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:           c.Query("q"),
		Country:     c.Query("country"),
		Genre:       c.Query("genre"),
		ContentType: c.Query("content_type"),
		Year:        parseInt(c.Query("year"), 0),
		Sort:        c.Query("sort"),
		Limit:       parseInt(c.Query("limit"), 20),
		Offset:      parseInt(c.Query("offset"), 0),
	}
	if raw := strings.TrimSpace(c.Query("min_rating")); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinRating = f
		}
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	entry, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) getBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
		return
	}
	entry, err := h.Repo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) featured(c *gin.Context) {
	items, err := h.Repo.Featured(c.Request.Context(), parseInt(c.Query("limit"), 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "featured failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) trending(c *gin.Context) {
	days := parseInt(c.Query("days"), 30)
	if days <= 0 || days > 365 {
		days = 30
	}
	items, err := h.Repo.Trending(c.Request.Context(), time.Duration(days)*24*time.Hour, parseInt(c.Query("limit"), 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trending failed"})
		return
	}
	if items == nil {
		items = []TrendingEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"window_days": days, "items": items})
}

func (h *Handler) similar(c *gin.Context) {
	entry, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	items, err := h.Repo.Similar(c.Request.Context(), *entry, parseInt(c.Query("limit"), 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "similar failed"})
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) countries(c *gin.Context) {
	countries, err := h.Repo.DistinctCountries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "countries failed"})
		return
	}
	if countries == nil {
		countries = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

type contentReq struct {
	Title              string          `json:"title"`
	OriginalTitle      string          `json:"original_title"`
	PosterURL          string          `json:"poster_url"`
	BannerURL          string          `json:"banner_url"`
	Synopsis           string          `json:"synopsis"`
	Year               *int            `json:"year"`
	Country            string          `json:"country"`
	ContentType        string          `json:"content_type"`
	Genres             []string        `json:"genres"`
	Rating             float64         `json:"rating"`
	Episodes           *int            `json:"episodes"`
	Duration           *int            `json:"duration"`
	Cast               []models.Person `json:"cast"`
	Crew               []models.Person `json:"crew"`
	StreamingPlatforms []string        `json:"streaming_platforms"`
	Tags               []string        `json:"tags"`
}

// validate enforces strict enum membership on the manual admin path; the
// spreadsheet importer is the liberal one, not this.
func (req *contentReq) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title required"
	}
	if req.ContentType != "" && !contains(models.ContentTypes(), strings.ToLower(req.ContentType)) {
		return "invalid content_type"
	}
	for _, g := range req.Genres {
		if !contains(models.Genres(), strings.ToLower(g)) {
			return "unknown genre: " + g
		}
	}
	if req.Rating < 0 || req.Rating > 10 {
		return "rating must be between 0 and 10"
	}
	return ""
}

func (h *Handler) create(c *gin.Context) {
	var req contentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	slug, err := h.Repo.UniqueSlug(c.Request.Context(), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "slug failed"})
		return
	}

	now := time.Now().UTC()
	entry := models.Content{
		ID:                 uuid.NewString(),
		Slug:               slug,
		Title:              strings.TrimSpace(req.Title),
		OriginalTitle:      strings.TrimSpace(req.OriginalTitle),
		PosterURL:          req.PosterURL,
		BannerURL:          req.BannerURL,
		Synopsis:           req.Synopsis,
		Year:               req.Year,
		Country:            req.Country,
		ContentType:        strings.ToLower(req.ContentType),
		Genres:             lowerAll(req.Genres),
		Rating:             req.Rating,
		Episodes:           req.Episodes,
		Duration:           req.Duration,
		Cast:               fillPersonIDs(req.Cast),
		Crew:               fillPersonIDs(req.Crew),
		StreamingPlatforms: req.StreamingPlatforms,
		Tags:               req.Tags,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	applyDisplayDefaults(&entry)

	if err := h.Repo.Insert(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) update(c *gin.Context) {
	existing, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req contentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	entry := *existing
	entry.Title = strings.TrimSpace(req.Title)
	entry.OriginalTitle = strings.TrimSpace(req.OriginalTitle)
	entry.PosterURL = req.PosterURL
	entry.BannerURL = req.BannerURL
	entry.Synopsis = req.Synopsis
	entry.Year = req.Year
	entry.Country = req.Country
	entry.ContentType = strings.ToLower(req.ContentType)
	entry.Genres = lowerAll(req.Genres)
	entry.Rating = req.Rating
	entry.Episodes = req.Episodes
	entry.Duration = req.Duration
	entry.Cast = fillPersonIDs(req.Cast)
	entry.Crew = fillPersonIDs(req.Crew)
	entry.StreamingPlatforms = req.StreamingPlatforms
	entry.Tags = req.Tags
	applyDisplayDefaults(&entry)

	if err := h.Repo.Update(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.Repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// applyDisplayDefaults mirrors the importer's defaults so manually created
// entries are never blank either: the UI shows "N.A", not an empty cell.
func applyDisplayDefaults(entry *models.Content) {
	if entry.PosterURL == "" {
		entry.PosterURL = models.PlaceholderPoster
	}
	if entry.Synopsis == "" {
		entry.Synopsis = "N.A"
	}
	if entry.Country == "" {
		entry.Country = "N.A"
	}
	if entry.ContentType == "" {
		entry.ContentType = models.TypeDrama
	}
	if entry.Genres == nil {
		entry.Genres = []string{}
	}
	if entry.Cast == nil {
		entry.Cast = []models.Person{}
	}
	if entry.Crew == nil {
		entry.Crew = []models.Person{}
	}
	if entry.StreamingPlatforms == nil {
		entry.StreamingPlatforms = []string{}
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
}

func fillPersonIDs(people []models.Person) []models.Person {
	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		out = append(out, p)
	}
	return out
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
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
