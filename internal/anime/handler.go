package anime

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"animeverse/internal/provider"
	"animeverse/pkg/models"
)

// listingLimit caps trending/recent listings.
const listingLimit = 20

// MetadataProvider is the slice of the primary client these handlers
// use. All methods answer "no data" with nil or an empty slice.
type MetadataProvider interface {
	GetInfo(ctx context.Context, animeID, provider string) *models.AnimeInfo
	GetStreamingLinks(ctx context.Context, episodeID, provider string) *models.StreamingInfo
	TopAiring(ctx context.Context) []models.SearchResult
	RecentEpisodes(ctx context.Context) []models.SearchResult
}

// FallbackProvider serves detail lookups addressed to the secondary API
// directly, and the trending fallback.
type FallbackProvider interface {
	GetInfo(ctx context.Context, animeID string) *models.AnimeInfo
	SeasonNow(ctx context.Context) []models.SearchResult
}

type Handler struct {
	Primary  MetadataProvider
	Fallback FallbackProvider
}

func NewHandler(primary MetadataProvider, fallback FallbackProvider) *Handler {
	return &Handler{Primary: primary, Fallback: fallback}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/anime/:provider/:id", h.info)
	rg.GET("/watch/:provider/:episodeId", h.watch)
	rg.GET("/trending", h.trending)
	rg.GET("/recent", h.recent)
}

func (h *Handler) info(c *gin.Context) {
	prov := c.Param("provider")
	animeID := c.Param("id")

	var info *models.AnimeInfo
	if prov == provider.ProviderJikan {
		info = h.Fallback.GetInfo(c.Request.Context(), animeID)
	} else {
		info = h.Primary.GetInfo(c.Request.Context(), animeID, prov)
	}

	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Anime not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) watch(c *gin.Context) {
	prov := c.Param("provider")
	episodeID := c.Param("episodeId")

	info := h.Primary.GetStreamingLinks(c.Request.Context(), episodeID, prov)

	// An episode without a single source is as unplayable as a failed
	// fetch; both answer 404.
	if info == nil || len(info.Sources) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) trending(c *gin.Context) {
	results := h.Primary.TopAiring(c.Request.Context())
	if len(results) == 0 {
		results = h.Fallback.SeasonNow(c.Request.Context())
	}
	if len(results) > listingLimit {
		results = results[:listingLimit]
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) recent(c *gin.Context) {
	results := h.Primary.RecentEpisodes(c.Request.Context())
	if len(results) > listingLimit {
		results = results[:listingLimit]
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
