package domain

import (
	"math"
	"time"
)

// ReportSummary aggregates a set of records for export/reporting.
type ReportSummary struct {
	Total          int              `json:"total"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
	AverageScore   float64          `json:"average_score"` // rounded to 1 decimal
	GeneratedAt    time.Time        `json:"generated_at"`
}

// Summarize computes severity counts and the average CVSS score over records
// that carry one.
func Summarize(records []VulnerabilityRecord) ReportSummary {
	summary := ReportSummary{
		Total:          len(records),
		SeverityCounts: make(map[Severity]int, len(Severities)),
		GeneratedAt:    time.Now(),
	}
	for _, sev := range Severities {
		summary.SeverityCounts[sev] = 0
	}

	var sum float64
	var scored int
	for _, r := range records {
		summary.SeverityCounts[r.Severity]++
		if r.CVSS.Score != nil {
			sum += *r.CVSS.Score
			scored++
		}
	}
	if scored > 0 {
		summary.AverageScore = math.Round(sum/float64(scored)*10) / 10
	}
	return summary
}
