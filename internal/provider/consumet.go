package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"animeverse/internal/cache"
	"animeverse/internal/ratelimit"
	"animeverse/pkg/models"
	"animeverse/pkg/utils"
)

// Consumet talks to the primary streaming-metadata aggregation API.
//
// Every public method is cache-first: a fresh cache entry short-circuits
// the call, bypassing both the network and the rate limiter. Transport
// failures are logged and degrade to an empty/absent result; callers
// treat "no data" uniformly and never see the underlying error.
type Consumet struct {
	baseURL         string
	defaultProvider string
	tr              *transport
	cache           *cache.Store
	log             zerolog.Logger

	searchTTL    time.Duration
	infoTTL      time.Duration
	streamingTTL time.Duration
}

func NewConsumet(cfg *utils.Config, store *cache.Store, limiter *ratelimit.Limiter, log zerolog.Logger) *Consumet {
	return &Consumet{
		baseURL:         strings.TrimRight(cfg.ConsumetBaseURL, "/"),
		defaultProvider: cfg.DefaultProvider,
		tr:              newTransport(cfg.RequestTimeout, limiter),
		cache:           store,
		log:             log.With().Str("module", "consumet").Logger(),
		searchTTL:       cfg.SearchTTL,
		infoTTL:         cfg.InfoTTL,
		streamingTTL:    cfg.StreamingTTL,
	}
}

// searchBundle is the payload shape cached for search-style endpoints.
type searchBundle struct {
	Results  []models.SearchResult `json:"results"`
	Provider string                `json:"provider"`
}

type consumetSearchResponse struct {
	Results []consumetSearchItem `json:"results"`
}

type consumetSearchItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releaseDate"`
	Status      string `json:"status"`
}

type consumetInfoResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Genres        []string         `json:"genres"`
	TotalEpisodes int              `json:"totalEpisodes"`
	ReleaseDate   string           `json:"releaseDate"`
	Rating        float64          `json:"rating"`
	Image         string           `json:"image"`
	Status        string           `json:"status"`
	Type          string           `json:"type"`
	Episodes      []models.Episode `json:"episodes"`
}

type consumetWatchResponse struct {
	Sources   []models.StreamSource `json:"sources"`
	Subtitles []models.Subtitle     `json:"subtitles"`
	Intro     models.SkipRange      `json:"intro"`
	Outro     models.SkipRange      `json:"outro"`
}

// Search queries one provider backend for a title. A transport failure
// yields an empty slice, never an error.
func (c *Consumet) Search(ctx context.Context, query, prov string) []models.SearchResult {
	key := fmt.Sprintf("search_%s_%s", prov, strings.ToLower(query))

	bundle, err := cache.Through(ctx, c.cache, key, cache.CategorySearch, prov, c.searchTTL,
		func(ctx context.Context) (*searchBundle, error) {
			u := fmt.Sprintf("%s/anime/%s/%s", c.baseURL, prov, url.PathEscape(query))
			var raw consumetSearchResponse
			if err := c.tr.getJSON(ctx, u, nil, &raw); err != nil {
				return nil, err
			}

			results := make([]models.SearchResult, 0, len(raw.Results))
			for _, item := range raw.Results {
				results = append(results, models.SearchResult{
					ID:           item.ID,
					Title:        item.Title,
					EnglishTitle: item.Title,
					Image:        item.Image,
					ReleaseDate:  item.ReleaseDate,
					Status:       orUnknown(item.Status),
					Provider:     prov,
					DetailURL:    fmt.Sprintf("/anime/%s/%s", prov, item.ID),
				})
			}
			return &searchBundle{Results: results, Provider: prov}, nil
		})
	if err != nil {
		c.log.Error().Err(err).Str("provider", prov).Str("query", query).Msg("search failed")
		return nil
	}
	if bundle == nil {
		return nil
	}
	return bundle.Results
}

// GetInfo fetches the detail record for one anime. Returns nil when the
// upstream has no data or the call failed.
func (c *Consumet) GetInfo(ctx context.Context, animeID, prov string) *models.AnimeInfo {
	key := fmt.Sprintf("info_%s_%s", prov, animeID)

	info, err := cache.Through(ctx, c.cache, key, cache.CategoryAnimeInfo, prov, c.infoTTL,
		func(ctx context.Context) (*models.AnimeInfo, error) {
			u := fmt.Sprintf("%s/anime/%s/info/%s", c.baseURL, prov, url.PathEscape(animeID))
			var raw consumetInfoResponse
			if err := c.tr.getJSON(ctx, u, nil, &raw); err != nil {
				return nil, err
			}

			genres := raw.Genres
			if genres == nil {
				genres = []string{}
			}
			episodes := raw.Episodes
			if episodes == nil {
				episodes = []models.Episode{}
			}

			return &models.AnimeInfo{
				ID:            raw.ID,
				Title:         raw.Title,
				EnglishTitle:  raw.Title,
				Synopsis:      raw.Description,
				Genres:        genres,
				EpisodeCount:  len(episodes),
				TotalEpisodes: raw.TotalEpisodes,
				Year:          yearFromDate(raw.ReleaseDate),
				Score:         raw.Rating,
				Image:         raw.Image,
				Status:        orUnknown(raw.Status),
				Type:          orUnknown(raw.Type),
				EpisodesList:  episodes,
				Provider:      prov,
			}, nil
		})
	if err != nil {
		c.log.Error().Err(err).Str("provider", prov).Str("anime_id", animeID).Msg("info fetch failed")
		return nil
	}
	return info
}

// GetStreamingLinks fetches the stream source list for one episode.
// Sources and subtitles pass through in upstream order; returns nil when
// the upstream has no data or the call failed.
func (c *Consumet) GetStreamingLinks(ctx context.Context, episodeID, prov string) *models.StreamingInfo {
	key := fmt.Sprintf("stream_%s_%s", prov, episodeID)

	info, err := cache.Through(ctx, c.cache, key, cache.CategoryStreaming, prov, c.streamingTTL,
		func(ctx context.Context) (*models.StreamingInfo, error) {
			u := fmt.Sprintf("%s/anime/%s/watch/%s", c.baseURL, prov, url.PathEscape(episodeID))
			var raw consumetWatchResponse
			if err := c.tr.getJSON(ctx, u, nil, &raw); err != nil {
				return nil, err
			}

			sources := raw.Sources
			if sources == nil {
				sources = []models.StreamSource{}
			}
			subtitles := raw.Subtitles
			if subtitles == nil {
				subtitles = []models.Subtitle{}
			}

			return &models.StreamingInfo{
				Sources:   sources,
				Subtitles: subtitles,
				Intro:     raw.Intro,
				Outro:     raw.Outro,
				Provider:  prov,
			}, nil
		})
	if err != nil {
		c.log.Error().Err(err).Str("provider", prov).Str("episode_id", episodeID).Msg("streaming fetch failed")
		return nil
	}
	return info
}

// TopAiring lists currently airing shows from the default provider.
func (c *Consumet) TopAiring(ctx context.Context) []models.SearchResult {
	u := fmt.Sprintf("%s/anime/%s/top-airing", c.baseURL, c.defaultProvider)
	return c.listing(ctx, "trending_"+c.defaultProvider, cache.CategorySearch, c.searchTTL, u)
}

// RecentEpisodes lists recently released episodes from the default
// provider.
func (c *Consumet) RecentEpisodes(ctx context.Context) []models.SearchResult {
	u := fmt.Sprintf("%s/anime/%s/recent-episodes", c.baseURL, c.defaultProvider)
	return c.listing(ctx, "recent_"+c.defaultProvider, cache.CategoryEpisode, c.streamingTTL, u)
}

func (c *Consumet) listing(ctx context.Context, key string, cat cache.Category, ttl time.Duration, u string) []models.SearchResult {
	bundle, err := cache.Through(ctx, c.cache, key, cat, c.defaultProvider, ttl,
		func(ctx context.Context) (*searchBundle, error) {
			var raw consumetSearchResponse
			if err := c.tr.getJSON(ctx, u, nil, &raw); err != nil {
				return nil, err
			}

			results := make([]models.SearchResult, 0, len(raw.Results))
			for _, item := range raw.Results {
				results = append(results, models.SearchResult{
					ID:           item.ID,
					Title:        item.Title,
					EnglishTitle: item.Title,
					Image:        item.Image,
					ReleaseDate:  item.ReleaseDate,
					Status:       orUnknown(item.Status),
					Provider:     c.defaultProvider,
					DetailURL:    fmt.Sprintf("/anime/%s/%s", c.defaultProvider, item.ID),
				})
			}
			return &searchBundle{Results: results, Provider: c.defaultProvider}, nil
		})
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("listing fetch failed")
		return nil
	}
	if bundle == nil {
		return nil
	}
	return bundle.Results
}
