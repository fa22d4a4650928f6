package models

// StreamSource is a single playable stream for an episode.
type StreamSource struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	IsM3U8  bool   `json:"isM3U8"`
}

// Subtitle is one subtitle track attached to an episode.
type Subtitle struct {
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// SkipRange marks an intro/outro segment in seconds from episode start.
type SkipRange struct {
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`
}

// StreamingInfo holds everything needed to play one episode.
// Sources and subtitles are passed through from the upstream in their
// reported order.
type StreamingInfo struct {
	Sources   []StreamSource `json:"sources"`
	Subtitles []Subtitle     `json:"subtitles"`
	Intro     SkipRange      `json:"intro"`
	Outro     SkipRange      `json:"outro"`
	Provider  string         `json:"provider"`
}
