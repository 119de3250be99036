package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/threatlens/threatlens/internal/core/domain"
)

// ExportJSON writes vulnerability records as an indented JSON array
func ExportJSON(w io.Writer, records []domain.VulnerabilityRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// ExportCSV writes vulnerability records as CSV with headers
func ExportCSV(w io.Writer, records []domain.VulnerabilityRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Header row
	headers := []string{
		"CVE ID", "Severity", "CVSS Score", "CVSS Version",
		"Published", "Last Modified", "CWE", "Description",
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	// Data rows
	for _, r := range records {
		score := ""
		if r.CVSS.Score != nil {
			score = fmt.Sprintf("%.1f", *r.CVSS.Score)
		}
		row := []string{
			r.ID,
			string(r.Severity),
			score,
			r.CVSS.Version,
			r.Published,
			r.LastModified,
			strings.Join(r.CWEs, ";"),
			r.Description,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// ExportSummaryJSON writes a severity breakdown as indented JSON
func ExportSummaryJSON(w io.Writer, summary domain.ReportSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
