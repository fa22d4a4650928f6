package sync

import "time"

const (
	EventWatchlistUpdate = "watchlist.update"
	EventWatchlistDelete = "watchlist.delete"
)

// WatchlistEvent is pushed to connected clients whenever the watchlist
// changes, so open tabs stay in sync without polling.
type WatchlistEvent struct {
	Type           string    `json:"type"`
	AnimeID        string    `json:"anime_id"`
	Title          string    `json:"title,omitempty"`
	CurrentEpisode int       `json:"current_episode,omitempty"`
	Status         string    `json:"status,omitempty"`
	At             time.Time `json:"at"`
}
