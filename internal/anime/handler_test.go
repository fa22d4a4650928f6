package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/pkg/models"
)

type fakePrimary struct {
	info      map[string]*models.AnimeInfo
	streaming map[string]*models.StreamingInfo
	topAiring []models.SearchResult
	recent    []models.SearchResult
}

func (f *fakePrimary) GetInfo(_ context.Context, animeID, _ string) *models.AnimeInfo {
	return f.info[animeID]
}

func (f *fakePrimary) GetStreamingLinks(_ context.Context, episodeID, _ string) *models.StreamingInfo {
	return f.streaming[episodeID]
}

func (f *fakePrimary) TopAiring(context.Context) []models.SearchResult { return f.topAiring }

func (f *fakePrimary) RecentEpisodes(context.Context) []models.SearchResult { return f.recent }

type fakeFallback struct {
	info      map[string]*models.AnimeInfo
	seasonNow []models.SearchResult
	infoCalls int
}

func (f *fakeFallback) GetInfo(_ context.Context, animeID string) *models.AnimeInfo {
	f.infoCalls++
	return f.info[animeID]
}

func (f *fakeFallback) SeasonNow(context.Context) []models.SearchResult { return f.seasonNow }

func newTestRouter(primary *fakePrimary, fallback *fakeFallback) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(primary, fallback).RegisterRoutes(r.Group("/api"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestInfoEndpoint(t *testing.T) {
	primary := &fakePrimary{info: map[string]*models.AnimeInfo{
		"naruto": {ID: "naruto", Title: "Naruto", Provider: "gogoanime"},
	}}
	r := newTestRouter(primary, &fakeFallback{})

	w := get(r, "/api/anime/gogoanime/naruto")
	require.Equal(t, http.StatusOK, w.Code)

	var info models.AnimeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Naruto", info.Title)
}

func TestInfoEndpointNotFound(t *testing.T) {
	r := newTestRouter(&fakePrimary{}, &fakeFallback{})

	w := get(r, "/api/anime/gogoanime/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInfoEndpointRoutesJikanToFallback(t *testing.T) {
	fallback := &fakeFallback{info: map[string]*models.AnimeInfo{
		"20": {ID: "20", Title: "Naruto", Provider: "jikan"},
	}}
	r := newTestRouter(&fakePrimary{}, fallback)

	w := get(r, "/api/anime/jikan/20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, fallback.infoCalls)
}

func TestWatchEndpoint(t *testing.T) {
	primary := &fakePrimary{streaming: map[string]*models.StreamingInfo{
		"naruto-1": {
			Sources:  []models.StreamSource{{URL: "https://cdn/ep1.m3u8", Quality: "1080p", IsM3U8: true}},
			Provider: "gogoanime",
		},
		"naruto-2": {Sources: []models.StreamSource{}},
	}}
	r := newTestRouter(primary, &fakeFallback{})

	w := get(r, "/api/watch/gogoanime/naruto-1")
	require.Equal(t, http.StatusOK, w.Code)

	var info models.StreamingInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Len(t, info.Sources, 1)

	// unknown episode and an episode without sources both read as 404
	assert.Equal(t, http.StatusNotFound, get(r, "/api/watch/gogoanime/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/watch/gogoanime/naruto-2").Code)
}

func listingBody(t *testing.T, w *httptest.ResponseRecorder) (results []models.SearchResult, total int) {
	t.Helper()
	var body struct {
		Results []models.SearchResult `json:"results"`
		Total   int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Results, body.Total
}

func TestTrendingFallsBackToSecondary(t *testing.T) {
	fallback := &fakeFallback{seasonNow: []models.SearchResult{{ID: "1", Title: "Current Show", Provider: "jikan"}}}
	r := newTestRouter(&fakePrimary{}, fallback)

	w := get(r, "/api/trending")
	require.Equal(t, http.StatusOK, w.Code)

	results, total := listingBody(t, w)
	assert.Equal(t, 1, total)
	assert.Equal(t, "jikan", results[0].Provider)
}

func TestTrendingCapsAtTwenty(t *testing.T) {
	primary := &fakePrimary{}
	for i := 0; i < 30; i++ {
		primary.topAiring = append(primary.topAiring, models.SearchResult{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("Show %d", i)})
	}
	r := newTestRouter(primary, &fakeFallback{})

	w := get(r, "/api/trending")
	require.Equal(t, http.StatusOK, w.Code)

	results, total := listingBody(t, w)
	assert.Equal(t, 20, total)
	assert.Len(t, results, 20)
}

func TestRecentEmptyIsNotAnError(t *testing.T) {
	r := newTestRouter(&fakePrimary{}, &fakeFallback{})

	w := get(r, "/api/recent")
	require.Equal(t, http.StatusOK, w.Code)

	results, total := listingBody(t, w)
	assert.NotNil(t, results)
	assert.Equal(t, 0, total)
}
