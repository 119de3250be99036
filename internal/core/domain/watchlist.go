package domain

import "time"

// WatchlistItem is one tracked CVE identifier.
type WatchlistItem struct {
	CVEID   string    `json:"cve_id"`
	AddedAt time.Time `json:"added_at"`
}

// AnalystNote is a free-text annotation attached to a CVE by the analyst.
type AnalystNote struct {
	ID        string    `json:"id"`
	CVEID     string    `json:"cve_id"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings is the user configuration read by the acquisition client.
type Settings struct {
	APIKey   string `json:"api_key"`
	DemoMode bool   `json:"demo_mode"`
}
