package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"animeverse/internal/ratelimit"
	"animeverse/pkg/models"
)

const (
	// backupThreshold is the result count below which backup providers
	// are consulted after the primary.
	backupThreshold = 10
	// maxResults caps the merged, deduplicated result list.
	maxResults = 20
)

// Searcher is the slice of the primary provider client the orchestrator
// needs. The client absorbs its own transport failures and answers with
// an empty slice, so one broken provider never aborts the chain.
type Searcher interface {
	Search(ctx context.Context, query, provider string) []models.SearchResult
}

// FallbackSearcher is consulted only when the whole primary chain came
// up empty.
type FallbackSearcher interface {
	Search(ctx context.Context, query string) []models.SearchResult
}

// Orchestrator walks the provider fallback chain for a search query:
// primary first, then the configured backups in order until enough
// results accumulated, then the secondary API as a last resort.
type Orchestrator struct {
	primary  Searcher
	fallback FallbackSearcher
	limiter  *ratelimit.Limiter
	provider string
	backups  []string
	log      zerolog.Logger
}

func NewOrchestrator(primary Searcher, fallback FallbackSearcher, limiter *ratelimit.Limiter, defaultProvider string, backups []string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		limiter:  limiter,
		provider: defaultProvider,
		backups:  backups,
		log:      log.With().Str("module", "search").Logger(),
	}
}

// Search merges results across providers. Primary results come first,
// then each backup in its configured order; duplicates by title are
// dropped and the list is capped at maxResults. An empty outcome falls
// through to the secondary API, whose results are returned as-is.
func (o *Orchestrator) Search(ctx context.Context, query string) []models.SearchResult {
	all := o.primary.Search(ctx, query, o.provider)

	if len(all) < backupThreshold {
		for _, prov := range o.backups {
			results := o.primary.Search(ctx, query, prov)
			all = append(all, results...)

			// Space out backup calls even when the client answered from
			// cache; the upstream sees at most one call per interval.
			if err := o.limiter.WaitTurn(ctx); err != nil {
				o.log.Warn().Err(err).Str("provider", prov).Msg("rate limit wait interrupted")
				break
			}
		}
	}

	unique := dedupeByTitle(all)
	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}

	if len(unique) == 0 {
		o.log.Info().Str("query", query).Msg("primary chain empty, falling back to secondary API")
		return o.fallback.Search(ctx, query)
	}
	return unique
}

// dedupeByTitle drops later entries whose lower-cased, trimmed title was
// already seen. The first occurrence wins regardless of which provider
// produced it or how complete the record is.
func dedupeByTitle(results []models.SearchResult) []models.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
