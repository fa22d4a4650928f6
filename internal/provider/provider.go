package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"animeverse/internal/ratelimit"
)

// Provider codes. The primary metadata API multiplexes several scraping
// backends behind one URL scheme; "jikan" addresses the secondary
// database API and is only used as a whole-system fallback.
const (
	ProviderGogoanime = "gogoanime"
	ProviderJikan     = "jikan"
)

const userAgent = "AnimeVerse/3.0"

// transport issues rate-limited JSON GETs on behalf of the provider
// clients. All clients share one transport so the process-wide throttle
// governs every outbound call.
type transport struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

func newTransport(timeout time.Duration, limiter *ratelimit.Limiter) *transport {
	return &transport{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// getJSON fetches rawURL and decodes the body into out. Non-200 statuses
// are errors; the caller decides whether to absorb them.
func (t *transport) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if err := t.limiter.WaitTurn(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// yearFromDate takes the portion of a release date before the first '-',
// so "2004-10-03" becomes "2004". An absent date is "Unknown".
func yearFromDate(date string) string {
	if date == "" {
		return "Unknown"
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

// orUnknown substitutes "Unknown" for fields the upstream left empty.
func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
