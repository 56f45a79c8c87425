package social

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dramaverse/internal/auth"
)

type Handler struct {
	Repo  *Repo
	Users *auth.Repo
}

func NewHandler(repo *Repo, users *auth.Repo) *Handler {
	return &Handler{Repo: repo, Users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/follow/:user_id", h.follow)
	rg.DELETE("/follow/:user_id", h.unfollow)
	rg.GET("/following", h.following)
	rg.GET("/followers", h.followers)
	rg.GET("/social/counts", h.counts)
}

func (h *Handler) follow(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	followeeID := strings.TrimSpace(c.Param("user_id"))
	if followeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if followeeID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	target, err := h.Users.GetByID(c.Request.Context(), followeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow failed"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.Repo.Follow(c.Request.Context(), claims.UserID, followeeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

func (h *Handler) unfollow(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	followeeID := strings.TrimSpace(c.Param("user_id"))
	if followeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	ok, err := h.Repo.Unfollow(c.Request.Context(), claims.UserID, followeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfollow failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not following"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (h *Handler) following(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.Following(c.Request.Context(), claims.UserID,
		parseInt(c.Query("limit"), 50), parseInt(c.Query("offset"), 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) followers(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.Followers(c.Request.Context(), claims.UserID,
		parseInt(c.Query("limit"), 50), parseInt(c.Query("offset"), 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) counts(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	following, followers, err := h.Repo.Counts(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "counts failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following, "followers": followers})
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
