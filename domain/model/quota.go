package model

// Costed platform methods.
const (
	MethodChannelsList      = "channels.list"
	MethodPlaylistItemsList = "playlistItems.list"
	MethodVideosList        = "videos.list"
	MethodVideosUpdate      = "videos.update"
	MethodThumbnailsSet     = "thumbnails.set"
)

// DefaultDailyQuota is the platform's default daily unit allowance.
const DefaultDailyQuota = 10000

// DefaultCosts returns the per-method unit costs.
func DefaultCosts() map[string]int {
	return map[string]int{
		MethodChannelsList:      1,
		MethodPlaylistItemsList: 1,
		MethodVideosList:        1,
		MethodVideosUpdate:      50,
		MethodThumbnailsSet:     50,
	}
}

// QuotaEntry is the persisted ledger.
type QuotaEntry struct {
	Date  string `json:"date"`
	Units int    `json:"units"`
}

// QuotaSnapshot is a point-in-time view for status displays.
type QuotaSnapshot struct {
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Exhausted bool   `json:"exhausted"`
}
