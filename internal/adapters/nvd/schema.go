package nvd

// Raw wire types for the NVD CVE API 2.0 response. Only the fields the
// normalizer consumes are declared; unknown fields are ignored by
// encoding/json.

// APIResponse is the top-level paging envelope.
type APIResponse struct {
	ResultsPerPage  int                     `json:"resultsPerPage"`
	StartIndex      int                     `json:"startIndex"`
	TotalResults    int                     `json:"totalResults"`
	Vulnerabilities []VulnerabilityEnvelope `json:"vulnerabilities"`
}

// VulnerabilityEnvelope wraps each entry under a "cve" key.
type VulnerabilityEnvelope struct {
	CVE CVEItem `json:"cve"`
}

// CVEItem is one raw CVE entry.
type CVEItem struct {
	ID             string          `json:"id"`
	Published      string          `json:"published,omitempty"`
	LastModified   string          `json:"lastModified,omitempty"`
	Descriptions   []LangString    `json:"descriptions,omitempty"`
	Metrics        *Metrics        `json:"metrics,omitempty"`
	Weaknesses     []Weakness      `json:"weaknesses,omitempty"`
	References     []ReferenceItem `json:"references,omitempty"`
	Configurations []Configuration `json:"configurations,omitempty"`
}

// LangString is a language-tagged text value.
type LangString struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// Metrics holds the parallel per-standard scoring lists. NVD may populate
// several simultaneously.
type Metrics struct {
	CVSSMetricV40 []CVSSMetric `json:"cvssMetricV40,omitempty"`
	CVSSMetricV31 []CVSSMetric `json:"cvssMetricV31,omitempty"`
	CVSSMetricV30 []CVSSMetric `json:"cvssMetricV30,omitempty"`
	CVSSMetricV2  []CVSSMetric `json:"cvssMetricV2,omitempty"`
}

// CVSSMetric is one scoring entry within a standard's list.
type CVSSMetric struct {
	Source   string   `json:"source,omitempty"`
	Type     string   `json:"type,omitempty"`
	CVSSData CVSSData `json:"cvssData"`
}

// CVSSData carries the base score fields shared by all CVSS versions.
type CVSSData struct {
	Version      string  `json:"version"`
	BaseScore    float64 `json:"baseScore"`
	VectorString string  `json:"vectorString,omitempty"`
}

// Weakness groups CWE assignments from one source.
type Weakness struct {
	Source      string       `json:"source,omitempty"`
	Type        string       `json:"type,omitempty"`
	Description []LangString `json:"description"`
}

// ReferenceItem is one advisory link.
type ReferenceItem struct {
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// Configuration, Node and CPEMatch model the applicability tree that carries
// CPE match criteria.
type Configuration struct {
	Nodes []Node `json:"nodes,omitempty"`
}

type Node struct {
	Operator string     `json:"operator,omitempty"`
	CPEMatch []CPEMatch `json:"cpeMatch,omitempty"`
}

type CPEMatch struct {
	Vulnerable bool   `json:"vulnerable,omitempty"`
	Criteria   string `json:"criteria"`
}
