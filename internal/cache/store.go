package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Category namespaces cache keys; the same key may exist independently
// under different categories.
type Category string

const (
	CategoryAnimeInfo Category = "anime_info"
	CategoryEpisode   Category = "episode"
	CategoryStreaming Category = "streaming"
	CategorySearch    Category = "search"
)

// Store is a TTL cache for JSON payloads backed by the api_cache table.
// A record is served only while the current time is strictly before its
// expires_at; expired rows are simply overwritten by the next Put.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("module", "cache").Logger(),
	}
}

// Get returns the stored payload for (key, category) when it is still
// fresh. Absent rows, expired rows and payloads that are no longer valid
// JSON all count as a miss; a miss is never an error.
func (s *Store) Get(ctx context.Context, key string, cat Category) (json.RawMessage, bool) {
	row := s.db.QueryRowContext(ctx, `
		SELECT payload, expires_at
		FROM api_cache
		WHERE key = ? AND category = ?
	`, key, string(cat))

	var payload string
	var expiresAt time.Time
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if err != sql.ErrNoRows {
			s.log.Warn().Err(err).Str("key", key).Str("category", string(cat)).Msg("cache read failed")
		}
		return nil, false
	}

	if !time.Now().Before(expiresAt) {
		return nil, false
	}

	raw := json.RawMessage(payload)
	if !json.Valid(raw) {
		s.log.Warn().Str("key", key).Str("category", string(cat)).Msg("discarding malformed cache payload")
		return nil, false
	}
	return raw, true
}

// Put upserts payload under (key, category) with a fresh expiry. Writes
// to the same key are last-write-wins.
func (s *Store) Put(ctx context.Context, key string, cat Category, provider string, payload any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO api_cache (key, category, provider, payload, cached_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key, category) DO UPDATE SET
			provider = excluded.provider,
			payload = excluded.payload,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at
	`, key, string(cat), provider, string(b), now, now.Add(ttl))
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Through is the cache-or-fetch path shared by every entity kind: return
// the cached value when fresh, otherwise invoke fetch and store its result
// before handing it back. fetch returning (nil, nil) means "upstream has
// no data"; nothing is cached in that case. A failed cache write is logged
// but does not fail the lookup.
func Through[T any](ctx context.Context, s *Store, key string, cat Category, provider string, ttl time.Duration, fetch func(context.Context) (*T, error)) (*T, error) {
	if raw, ok := s.Get(ctx, key, cat); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v, nil
		}
		// payload no longer matches the expected shape: treat as a miss
	}

	v, err := fetch(ctx)
	if err != nil || v == nil {
		return nil, err
	}

	if err := s.Put(ctx, key, cat, provider, v, ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Str("category", string(cat)).Msg("cache write failed")
	}
	return v, nil
}
