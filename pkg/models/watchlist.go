package models

import "time"

// WatchlistEntry is one anime the user is tracking. Entries are keyed by
// AnimeID; re-adding an anime updates the existing row.
type WatchlistEntry struct {
	AnimeID        string    `json:"id"`
	Title          string    `json:"title"`
	Image          string    `json:"image"`
	CurrentEpisode int       `json:"currentEpisode"`
	TotalEpisodes  int       `json:"totalEpisodes"`
	Status         string    `json:"status"` // "watching", "completed", ...
	AddedAt        time.Time `json:"addedAt"`
}
