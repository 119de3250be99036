package domain

import "testing"

func TestIsValidCVEID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"CVE-2021-44228", true},
		{"cve-2021-44228", true},
		{"CVE-2014-0160", true},
		{"CVE-2024-123456", true},
		{"  CVE-2021-44228  ", true},
		{"CVE-2021-123", false}, // fewer than 4 digits
		{"CVE-21-44228", false},
		{"GHSA-jfh8-c2jp-5v3q", false},
		{"44228", false},
		{"", false},
	}

	for _, tt := range tests {
		if IsValidCVEID(tt.id) != tt.valid {
			t.Errorf("IsValidCVEID(%q) = %v; want %v", tt.id, IsValidCVEID(tt.id), tt.valid)
		}
	}
}

func TestNormalizeCVEID(t *testing.T) {
	if got := NormalizeCVEID("  cve-2021-44228 "); got != "CVE-2021-44228" {
		t.Errorf("NormalizeCVEID = %q; want CVE-2021-44228", got)
	}
}

func TestLooksLikeCVEID(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"CVE-2021-44228", true},
		{"cve-2023-", true},
		{"apache log4j", false},
		{"", false},
	}

	for _, tt := range tests {
		if LooksLikeCVEID(tt.query) != tt.want {
			t.Errorf("LooksLikeCVEID(%q) = %v; want %v", tt.query, LooksLikeCVEID(tt.query), tt.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<script>alert(1)</script>bad", "alert(1)bad"},
		{"a <b>bold</b> claim", "a bold claim"},
		{"less < than still fine", "less < than still fine"},
		{"<img src=x onerror=alert(1)>", ""},
	}

	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
