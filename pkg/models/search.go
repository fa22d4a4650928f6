package models

// SearchResult is the normalized form of one search hit, regardless of
// which upstream provider produced it.
//
// Every provider response is mapped into this structure first; the
// fallback orchestrator only ever merges and dedupes this shape.
type SearchResult struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	EnglishTitle string `json:"english_title"`
	Image        string `json:"image"`
	ReleaseDate  string `json:"releaseDate"`
	Status       string `json:"status"`   // "Ongoing", "Completed", "Unknown", ...
	Provider     string `json:"provider"` // provider code, e.g. "gogoanime", "jikan"
	DetailURL    string `json:"url"`      // relative detail path, e.g. /anime/gogoanime/naruto
}
