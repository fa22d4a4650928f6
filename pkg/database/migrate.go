package database

import (
	"database/sql"
	"fmt"
)

// schema is applied on every startup; all statements are idempotent so a
// restart against an existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS api_cache (
	key TEXT NOT NULL,
	category TEXT NOT NULL,
	provider TEXT NOT NULL DEFAULT 'unknown',
	payload TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL,
	PRIMARY KEY (key, category)
);

CREATE INDEX IF NOT EXISTS idx_api_cache_expires_at ON api_cache(expires_at);

CREATE TABLE IF NOT EXISTS user_watchlist (
	anime_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	image TEXT NOT NULL,
	current_episode INTEGER NOT NULL DEFAULT 1,
	total_episodes INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'watching',
	added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_user_watchlist_added_at ON user_watchlist(added_at);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
