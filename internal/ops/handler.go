package ops

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"dramaverse/internal/live"
)

// Handler serves the operational endpoints: liveness, readiness and the
// admin diagnostics snapshot.
type Handler struct {
	DB      *sql.DB
	DBPath  string
	Hub     *live.Hub
	Started time.Time
}

func NewHandler(db *sql.DB, dbPath string, hub *live.Hub) *Handler {
	return &Handler{DB: db, DBPath: dbPath, Hub: hub, Started: time.Now().UTC()}
}

func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
	r.GET("/debug", h.debug)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/diagnostics", h.diagnostics)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": h.DBPath})
}

func (h *Handler) ready(c *gin.Context) {
	stats := h.Hub.Stats()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "not_ready",
			"db_error":    err.Error(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"db":          "ok",
		"tcp_clients": stats.TCPClients,
		"ws_clients":  stats.WSClients,
	})
}

func (h *Handler) debug(c *gin.Context) {
	stats := h.Hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"db":          h.DBPath,
		"uptime":      time.Since(h.Started).String(),
		"goroutines":  runtime.NumGoroutine(),
		"tcp_clients": stats.TCPClients,
		"ws_clients":  stats.WSClients,
	})
}

// diagnostics reports table counts alongside runtime stats. Admin only.
func (h *Handler) diagnostics(c *gin.Context) {
	counts := gin.H{}
	for _, table := range []string{"users", "content", "watchlist", "watch_history", "reviews", "follows", "import_jobs", "feeds"} {
		var n int
		if err := h.DB.QueryRowContext(c.Request.Context(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "diagnostics failed"})
			return
		}
		counts[table] = n
	}

	stats := h.Hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"db":          h.DBPath,
		"uptime":      time.Since(h.Started).String(),
		"goroutines":  runtime.NumGoroutine(),
		"tcp_clients": stats.TCPClients,
		"ws_clients":  stats.WSClients,
		"counts":      counts,
	})
}
