package nvd

import (
	"strings"

	"github.com/threatlens/threatlens/internal/core/domain"
)

const noDescription = "No description available."

// CWE sentinel values NVD emits when no concrete weakness is assigned.
const (
	cweNoInfo = "NVD-CWE-noinfo"
	cweOther  = "NVD-CWE-Other"
)

// maxCPEs caps the shortened product identifiers kept per record.
const maxCPEs = 20

// ParseResponse normalizes a full API response. Records without an identifier
// are skipped; a missing vulnerabilities array yields an empty slice.
func ParseResponse(raw *APIResponse) []domain.VulnerabilityRecord {
	if raw == nil || len(raw.Vulnerabilities) == 0 {
		return []domain.VulnerabilityRecord{}
	}

	records := make([]domain.VulnerabilityRecord, 0, len(raw.Vulnerabilities))
	for i := range raw.Vulnerabilities {
		if rec, ok := parseCVE(&raw.Vulnerabilities[i].CVE); ok {
			records = append(records, rec)
		}
	}
	return records
}

// parseCVE normalizes a single raw entry. ok is false when the entry lacks
// the mandatory identifier.
func parseCVE(c *CVEItem) (domain.VulnerabilityRecord, bool) {
	if c == nil || c.ID == "" {
		return domain.VulnerabilityRecord{}, false
	}

	cvss := extractCVSS(c.Metrics)

	return domain.VulnerabilityRecord{
		ID:           domain.NormalizeCVEID(c.ID),
		Description:  domain.SanitizeText(extractDescription(c.Descriptions)),
		Published:    c.Published,
		LastModified: c.LastModified,
		CVSS:         cvss,
		Severity:     domain.ClassifySeverity(cvss.Score),
		CWEs:         extractCWEs(c.Weaknesses),
		References:   extractReferences(c.References),
		CPEs:         extractCPEs(c.Configurations),
	}, true
}

// extractDescription prefers the English description, falls back to the first
// available one, and substitutes a placeholder when none exist.
func extractDescription(descs []LangString) string {
	if len(descs) == 0 {
		return noDescription
	}
	for _, d := range descs {
		if d.Lang == "en" && d.Value != "" {
			return d.Value
		}
	}
	if descs[0].Value != "" {
		return descs[0].Value
	}
	return noDescription
}

// extractCVSS picks the first entry of the first non-empty metric list in
// fixed newest-to-oldest priority: v4.0, v3.1, v3.0, v2. Newer standards are
// more expressive, so the order must not change.
func extractCVSS(m *Metrics) domain.CVSSInfo {
	if m == nil {
		return domain.CVSSInfo{Version: "N/A"}
	}
	for _, list := range [][]CVSSMetric{
		m.CVSSMetricV40,
		m.CVSSMetricV31,
		m.CVSSMetricV30,
		m.CVSSMetricV2,
	} {
		if len(list) == 0 {
			continue
		}
		data := list[0].CVSSData
		score := data.BaseScore
		return domain.CVSSInfo{
			Version: data.Version,
			Score:   &score,
			Vector:  data.VectorString,
		}
	}
	return domain.CVSSInfo{Version: "N/A"}
}

// extractCWEs flattens all weakness groups, drops the "no information"
// sentinels and deduplicates.
func extractCWEs(weaknesses []Weakness) []string {
	if len(weaknesses) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var cwes []string
	for _, w := range weaknesses {
		for _, d := range w.Description {
			v := d.Value
			if v == "" || v == cweNoInfo || v == cweOther {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			cwes = append(cwes, v)
		}
	}
	return cwes
}

// extractReferences maps references 1:1, preserving upstream order.
func extractReferences(refs []ReferenceItem) []domain.Reference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]domain.Reference, 0, len(refs))
	for _, r := range refs {
		out = append(out, domain.Reference{URL: r.URL, Source: r.Source})
	}
	return out
}

// extractCPEs collects match criteria across the applicability tree,
// shortened for display, deduplicated in first-seen order and capped.
func extractCPEs(configs []Configuration) []string {
	if len(configs) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var cpes []string
	for _, cfg := range configs {
		for _, node := range cfg.Nodes {
			for _, match := range node.CPEMatch {
				if match.Criteria == "" {
					continue
				}
				short := shortenCPE(match.Criteria)
				if _, dup := seen[short]; dup {
					continue
				}
				seen[short] = struct{}{}
				cpes = append(cpes, short)
				if len(cpes) == maxCPEs {
					return cpes
				}
			}
		}
	}
	return cpes
}

// shortenCPE reduces a full CPE 2.3 string to its three middle semantic
// fields. The well-known layout is cpe:2.3:part:vendor:product:version:...,
// so fields 3..5 are taken only when the identifier actually has that many
// colon-separated parts; anything shorter passes through verbatim. A missing
// or empty field 5 renders as "*".
func shortenCPE(criteria string) string {
	parts := strings.Split(criteria, ":")
	if len(parts) < 5 {
		return criteria
	}
	update := "*"
	if len(parts) > 5 && parts[5] != "" {
		update = parts[5]
	}
	return parts[3] + ":" + parts[4] + ":" + update
}
