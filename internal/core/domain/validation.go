package domain

import (
	"regexp"
	"strings"
)

// Validation Helpers

var (
	cveIDRegex     = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)
	cvePrefixRegex = regexp.MustCompile(`^(?i)cve-\d{4}-`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
)

// IsValidCVEID checks the canonical CVE identifier shape
// (CVE-YYYY-NNNN with at least 4 digits after the year, case-insensitive).
func IsValidCVEID(id string) bool {
	return cveIDRegex.MatchString(NormalizeCVEID(id))
}

// NormalizeCVEID returns the trimmed, uppercased form used for storage and
// comparison.
func NormalizeCVEID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// LooksLikeCVEID reports whether a raw search input should be treated as an
// identifier lookup rather than a keyword search.
func LooksLikeCVEID(query string) bool {
	return cvePrefixRegex.MatchString(strings.TrimSpace(query))
}

// SanitizeText strips angle-bracket tag sequences from free text so upstream
// descriptions cannot smuggle markup into a rendered page.
func SanitizeText(text string) string {
	return htmlTagRegex.ReplaceAllString(text, "")
}
