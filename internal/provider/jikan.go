package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"animeverse/internal/ratelimit"
	"animeverse/pkg/models"
	"animeverse/pkg/utils"
)

// Jikan talks to the secondary anime-database API. It has its own raw
// schema (mal_id, title_english, nested image URLs, aired.from) and is
// only consulted when the primary path came up empty, so its responses
// skip the cache layer entirely.
type Jikan struct {
	baseURL string
	tr      *transport
	log     zerolog.Logger
}

func NewJikan(cfg *utils.Config, limiter *ratelimit.Limiter, log zerolog.Logger) *Jikan {
	return &Jikan{
		baseURL: strings.TrimRight(cfg.JikanBaseURL, "/"),
		tr:      newTransport(cfg.RequestTimeout, limiter),
		log:     log.With().Str("module", "jikan").Logger(),
	}
}

type jikanAnime struct {
	MalID        int    `json:"mal_id"`
	Title        string `json:"title"`
	TitleEnglish string `json:"title_english"`
	Images       struct {
		JPG struct {
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Aired struct {
		From string `json:"from"`
	} `json:"aired"`
	Status   string  `json:"status"`
	Synopsis string  `json:"synopsis"`
	Episodes int     `json:"episodes"`
	Score    float64 `json:"score"`
	Type     string  `json:"type"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type jikanListResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanItemResponse struct {
	Data *jikanAnime `json:"data"`
}

// Search runs a scored, descending title search. A transport failure
// yields an empty slice.
func (j *Jikan) Search(ctx context.Context, query string) []models.SearchResult {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "20")
	params.Set("order_by", "score")
	params.Set("sort", "desc")

	var raw jikanListResponse
	if err := j.tr.getJSON(ctx, j.baseURL+"/anime", params, &raw); err != nil {
		j.log.Error().Err(err).Str("query", query).Msg("search failed")
		return nil
	}

	results := make([]models.SearchResult, 0, len(raw.Data))
	for _, item := range raw.Data {
		results = append(results, j.toSearchResult(item))
	}
	return results
}

// GetInfo fetches the detail record for one MAL id. Returns nil on
// failure or when the id is unknown upstream.
func (j *Jikan) GetInfo(ctx context.Context, animeID string) *models.AnimeInfo {
	var raw jikanItemResponse
	if err := j.tr.getJSON(ctx, j.baseURL+"/anime/"+url.PathEscape(animeID), nil, &raw); err != nil {
		j.log.Error().Err(err).Str("anime_id", animeID).Msg("info fetch failed")
		return nil
	}
	if raw.Data == nil {
		return nil
	}

	item := *raw.Data
	genres := make([]string, 0, len(item.Genres))
	for _, g := range item.Genres {
		genres = append(genres, g.Name)
	}

	return &models.AnimeInfo{
		ID:            strconv.Itoa(item.MalID),
		Title:         item.Title,
		EnglishTitle:  item.TitleEnglish,
		Synopsis:      item.Synopsis,
		Genres:        genres,
		EpisodeCount:  item.Episodes,
		TotalEpisodes: item.Episodes,
		Year:          yearFromDate(item.Aired.From),
		Score:         item.Score,
		Image:         item.Images.JPG.LargeImageURL,
		Status:        orUnknown(item.Status),
		Type:          orUnknown(item.Type),
		EpisodesList:  []models.Episode{},
		Provider:      ProviderJikan,
	}
}

// SeasonNow lists the current season, used as the trending fallback.
func (j *Jikan) SeasonNow(ctx context.Context) []models.SearchResult {
	var raw jikanListResponse
	if err := j.tr.getJSON(ctx, j.baseURL+"/seasons/now", nil, &raw); err != nil {
		j.log.Error().Err(err).Msg("season listing failed")
		return nil
	}

	results := make([]models.SearchResult, 0, len(raw.Data))
	for _, item := range raw.Data {
		results = append(results, j.toSearchResult(item))
	}
	return results
}

func (j *Jikan) toSearchResult(item jikanAnime) models.SearchResult {
	id := strconv.Itoa(item.MalID)

	// Jikan reports a full timestamp; keep only the year, and leave it
	// empty (not "Unknown") when there is no date, matching the search
	// payload shape of the primary providers.
	release := ""
	if item.Aired.From != "" {
		release, _, _ = strings.Cut(item.Aired.From, "-")
	}

	return models.SearchResult{
		ID:           id,
		Title:        item.Title,
		EnglishTitle: item.TitleEnglish,
		Image:        item.Images.JPG.LargeImageURL,
		ReleaseDate:  release,
		Status:       orUnknown(item.Status),
		Provider:     ProviderJikan,
		DetailURL:    fmt.Sprintf("/anime/%s/%s", ProviderJikan, id),
	}
}
