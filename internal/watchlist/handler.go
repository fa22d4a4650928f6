package watchlist

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"animeverse/internal/sync"
	"animeverse/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/watchlist", h.list)
	rg.POST("/watchlist", h.add)
	rg.DELETE("/watchlist/:id", h.remove)
}

type addReq struct {
	AnimeID        string `json:"anime_id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	CurrentEpisode int    `json:"current_episode"`
	TotalEpisodes  int    `json:"total_episodes"`
	Status         string `json:"status"`
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load watchlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"watchlist": entries,
		"total":     len(entries),
	})
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.AnimeID = strings.TrimSpace(req.AnimeID)
	if req.AnimeID == "" || req.Title == "" || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if req.Status == "" {
		req.Status = "watching"
	}
	if req.CurrentEpisode <= 0 {
		req.CurrentEpisode = 1
	}

	entry := models.WatchlistEntry{
		AnimeID:        req.AnimeID,
		Title:          req.Title,
		Image:          req.Image,
		CurrentEpisode: req.CurrentEpisode,
		TotalEpisodes:  req.TotalEpisodes,
		Status:         req.Status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to watchlist"})
		return
	}

	if h.Hub != nil {
		ev := sync.WatchlistEvent{
			Type:           sync.EventWatchlistUpdate,
			AnimeID:        entry.AnimeID,
			Title:          entry.Title,
			CurrentEpisode: entry.CurrentEpisode,
			Status:         entry.Status,
			At:             time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to watchlist"})
}

func (h *Handler) remove(c *gin.Context) {
	animeID := strings.TrimSpace(c.Param("id"))
	if animeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anime id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), animeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from watchlist"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Anime not found in watchlist"})
		return
	}

	if h.Hub != nil {
		ev := sync.WatchlistEvent{
			Type:    sync.EventWatchlistDelete,
			AnimeID: animeID,
			At:      time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from watchlist"})
}
