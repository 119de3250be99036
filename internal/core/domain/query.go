package domain

// ResultStatus tags how a search result was resolved, so callers can tell a
// live answer apart from a cached or degraded one instead of having the
// distinction masked.
type ResultStatus string

const (
	StatusLive     ResultStatus = "live"     // fresh network response
	StatusCache    ResultStatus = "cache"    // served from the local TTL cache
	StatusDemo     ResultStatus = "demo"     // demo mode, bundled dataset
	StatusDegraded ResultStatus = "degraded" // network failed, bundled dataset fallback
)

// SearchQuery describes one search or single-record lookup.
// Exactly one of CVEID/Keyword is meaningful per call.
type SearchQuery struct {
	CVEID   string `json:"cve_id,omitempty"`
	Keyword string `json:"keyword,omitempty"`

	PageSize int `json:"page_size,omitempty"`
	Offset   int `json:"offset,omitempty"`

	// Optional RFC3339 date windows.
	PubStart string `json:"pub_start,omitempty"`
	PubEnd   string `json:"pub_end,omitempty"`
	ModStart string `json:"mod_start,omitempty"`
	ModEnd   string `json:"mod_end,omitempty"`
}

// SearchResult is one page of normalized records plus paging metadata.
type SearchResult struct {
	Records      []VulnerabilityRecord `json:"records"`
	TotalResults int                   `json:"total_results"`
	Offset       int                   `json:"offset"`
	PageSize     int                   `json:"page_size"`
	Status       ResultStatus          `json:"status"`
}
