package watchlist

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dramaverse/internal/auth"
	"dramaverse/internal/live"
	"dramaverse/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *live.Hub
}

func NewHandler(repo *Repo, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/watchlist", h.list)
	rg.POST("/watchlist", h.addOrUpdate)
	rg.PUT("/watchlist/:content_id", h.addOrUpdate)
	rg.DELETE("/watchlist/:content_id", h.remove)
	rg.GET("/watchlist/:content_id", h.getOne)
}

type upsertReq struct {
	ContentID string `json:"content_id"` // required for POST
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	contentID := strings.TrimSpace(req.ContentID)
	if contentID == "" {
		contentID = strings.TrimSpace(c.Param("content_id"))
	}
	if contentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_id required"})
		return
	}

	status := normalizeStatus(req.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: watching, completed, plan_to_watch, on_hold, dropped",
		})
		return
	}

	if req.Progress < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be >= 0"})
		return
	}

	item := models.WatchlistItem{
		UserID:    claims.UserID,
		ContentID: contentID,
		Status:    status,
		Progress:  req.Progress,
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// Return the canonical stored row including updated_at
	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, contentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}
	if saved == nil {
		saved = &item
		saved.UpdatedAt = time.Now().UTC()
	}

	if h.Hub != nil {
		ev := live.WatchlistEvent{
			Type:      "watchlist.update",
			UserID:    claims.UserID,
			ContentID: contentID,
			Status:    saved.Status,
			Progress:  saved.Progress,
			At:        time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		status = normalizeStatus(status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	contentID := strings.TrimSpace(c.Param("content_id"))
	if contentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, contentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := live.WatchlistEvent{
			Type:      "watchlist.delete",
			UserID:    claims.UserID,
			ContentID: contentID,
			At:        time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	contentID := strings.TrimSpace(c.Param("content_id"))
	if contentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_id required"})
		return
	}

	it, err := h.Repo.Get(c.Request.Context(), claims.UserID, contentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "watching":
		return "watching"
	case "completed":
		return "completed"
	case "plan to watch", "plan_to_watch", "plantowatch":
		return "plan_to_watch"
	case "on hold", "on_hold", "onhold":
		return "on_hold"
	case "dropped":
		return "dropped"
	default:
		return ""
	}
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
