package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/internal/ratelimit"
	"animeverse/pkg/models"
)

func newTestRouter(primary Searcher, fallback FallbackSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	o := NewOrchestrator(primary, fallback, ratelimit.New(time.Millisecond), "gogoanime", nil, zerolog.Nop())
	r := gin.New()
	NewHandler(o).RegisterRoutes(r.Group("/api"))
	return r
}

func TestSearchEndpointRejectsShortQuery(t *testing.T) {
	r := newTestRouter(&fakePrimary{}, &fakeFallback{})

	for _, q := range []string{"", "a", "  b  "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape(q), nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestSearchEndpointWellFormedWhenEmpty(t *testing.T) {
	r := newTestRouter(&fakePrimary{}, &fakeFallback{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=ab", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []models.SearchResult `json:"results"`
		Total   int                   `json:"total"`
		Query   string                `json:"query"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Results)
	assert.Equal(t, 0, body.Total)
	assert.Equal(t, "ab", body.Query)
}

func TestSearchEndpointReturnsResults(t *testing.T) {
	primary := &fakePrimary{byProvider: map[string][]models.SearchResult{
		"gogoanime": results("gogoanime", "Naruto", "Bleach"),
	}}
	r := newTestRouter(primary, &fakeFallback{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=naruto", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []models.SearchResult `json:"results"`
		Total   int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "Naruto", body.Results[0].Title)
}
