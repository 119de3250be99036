package domain

// CVSSInfo carries the scoring data selected from the upstream metrics.
// Version is "N/A" when the record carries no metrics at all.
type CVSSInfo struct {
	Version string   `json:"version"`
	Score   *float64 `json:"score"`
	Vector  string   `json:"vector,omitempty"`
}

// Reference is a single advisory/patch link, order preserved from upstream.
type Reference struct {
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// VulnerabilityRecord is the normalized form of one upstream CVE entry.
// It is a plain value object: fully determined by the raw record, never
// mutated after construction.
type VulnerabilityRecord struct {
	ID          string `json:"id"` // canonical, uppercased, e.g. "CVE-2021-44228"
	Description string `json:"description"`

	// RFC3339 timestamps as published upstream; empty when absent.
	Published    string `json:"published,omitempty"`
	LastModified string `json:"last_modified,omitempty"`

	CVSS     CVSSInfo `json:"cvss"`
	Severity Severity `json:"severity"` // derived solely from CVSS.Score

	// CWE identifiers, deduplicated, "no information" sentinels dropped.
	CWEs []string `json:"cwes,omitempty"`

	References []Reference `json:"references,omitempty"`

	// Shortened CPE identifiers (product:version:update), deduplicated,
	// capped at 20 entries in first-seen order.
	CPEs []string `json:"cpes,omitempty"`
}
