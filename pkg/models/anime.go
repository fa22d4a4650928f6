package models

// Episode is one entry of an anime's episode list as reported by the
// primary metadata API.
type Episode struct {
	ID     string  `json:"id"`
	Number float64 `json:"number"`
	Title  string  `json:"title,omitempty"`
	URL    string  `json:"url,omitempty"`
}

// AnimeInfo is the normalized detail record for a single anime.
//
// EpisodeCount is the length of the episode list we actually received;
// TotalEpisodes is whatever the upstream claims and the two may differ
// (e.g. for currently airing shows).
type AnimeInfo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	EnglishTitle  string    `json:"english_title"`
	Synopsis      string    `json:"synopsis"`
	Genres        []string  `json:"genres"`
	EpisodeCount  int       `json:"episodes"`
	TotalEpisodes int       `json:"totalEpisodes"`
	Year          string    `json:"year"` // "2004", or "Unknown" when the upstream has no date
	Score         float64   `json:"score"`
	Image         string    `json:"image"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	EpisodesList  []Episode `json:"episodes_list"`
	Provider      string    `json:"provider"`
}
