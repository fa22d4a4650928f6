package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"animeverse/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert inserts or updates the entry for an anime. Re-adding keeps the
// original added_at.
func (r *Repo) Upsert(ctx context.Context, e models.WatchlistEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_watchlist (anime_id, title, image, current_episode, total_episodes, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(anime_id) DO UPDATE SET
			title = excluded.title,
			image = excluded.image,
			current_episode = excluded.current_episode,
			total_episodes = excluded.total_episodes,
			status = excluded.status
	`, e.AnimeID, e.Title, e.Image, e.CurrentEpisode, e.TotalEpisodes, e.Status)
	if err != nil {
		return fmt.Errorf("upsert watchlist entry: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT anime_id, title, image, current_episode, total_episodes, status, added_at
		FROM user_watchlist
		ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	out := make([]models.WatchlistEntry, 0, 16)
	for rows.Next() {
		var e models.WatchlistEntry
		var added time.Time
		if err := rows.Scan(&e.AnimeID, &e.Title, &e.Image, &e.CurrentEpisode, &e.TotalEpisodes, &e.Status, &added); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		e.AddedAt = added
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, animeID string) (*models.WatchlistEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT anime_id, title, image, current_episode, total_episodes, status, added_at
		FROM user_watchlist
		WHERE anime_id = ?
	`, animeID)

	var e models.WatchlistEntry
	var added time.Time
	if err := row.Scan(&e.AnimeID, &e.Title, &e.Image, &e.CurrentEpisode, &e.TotalEpisodes, &e.Status, &added); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get watchlist entry: %w", err)
	}
	e.AddedAt = added
	return &e, nil
}

func (r *Repo) Delete(ctx context.Context, animeID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_watchlist WHERE anime_id = ?
	`, animeID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
