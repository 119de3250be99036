package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/threatlens/threatlens/internal/core/domain"
)

// PDFExporter renders vulnerability reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportReport generates a PDF from a summary and the records behind it
func (e *PDFExporter) ExportReport(title string, summary domain.ReportSummary, records []domain.VulnerabilityRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, title, summary)
	e.addSeverityOverview(pdf, summary)
	e.addRecordTable(pdf, records)
	e.addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// addHeader adds the report header
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, title string, summary domain.ReportSummary) {
	// Title
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Date and record count
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Records: %d", summary.Total), "", 1, "L", false, 0, "")

	pdf.Ln(8)
}

// addSeverityOverview adds the severity breakdown and average score
func (e *PDFExporter) addSeverityOverview(pdf *gofpdf.Fpdf, summary domain.ReportSummary) {
	// Section title
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Severity Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Total", fmt.Sprintf("%d", summary.Total), []int{0, 102, 204}},
		{"Average CVSS", fmt.Sprintf("%.1f", summary.AverageScore), []int{0, 102, 204}},
		{"Critical", fmt.Sprintf("%d", summary.SeverityCounts[domain.SeverityCritical]), []int{220, 53, 69}},
		{"High", fmt.Sprintf("%d", summary.SeverityCounts[domain.SeverityHigh]), []int{255, 149, 0}},
		{"Medium", fmt.Sprintf("%d", summary.SeverityCounts[domain.SeverityMedium]), []int{255, 204, 0}},
		{"Low", fmt.Sprintf("%d", summary.SeverityCounts[domain.SeverityLow]), []int{52, 199, 89}},
		{"Unknown", fmt.Sprintf("%d", summary.SeverityCounts[domain.SeverityUnknown]), []int{150, 150, 150}},
	}

	// Display in 2 columns
	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}

		pdf.SetXY(x, pdf.GetY())

		// Label
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		// Value
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	if len(stats)%2 == 1 {
		pdf.Ln(7)
	}

	pdf.Ln(10)
}

// addRecordTable adds the vulnerability record table
func (e *PDFExporter) addRecordTable(pdf *gofpdf.Fpdf, records []domain.VulnerabilityRecord) {
	// Section title
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Vulnerabilities", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(records) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No records in this report", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	// Table header
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(38, 8, "CVE ID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 8, "Severity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(18, 8, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(92, 8, "Description", "1", 1, "L", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for _, rec := range records {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}

		r, g, b := e.getSeverityColor(rec.Severity)

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(38, 7, rec.ID, "1", 0, "L", false, 0, "")

		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(22, 7, string(rec.Severity), "1", 0, "C", false, 0, "")

		score := "-"
		if rec.CVSS.Score != nil {
			score = fmt.Sprintf("%.1f", *rec.CVSS.Score)
		}
		pdf.CellFormat(18, 7, score, "1", 0, "C", false, 0, "")

		// Truncate description if too long
		desc := rec.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(92, 7, desc, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
}

// getSeverityColor returns RGB color based on severity tier
func (e *PDFExporter) getSeverityColor(severity domain.Severity) (r, g, b int) {
	switch severity {
	case domain.SeverityCritical:
		return 220, 53, 69 // Red
	case domain.SeverityHigh:
		return 255, 149, 0 // Orange
	case domain.SeverityMedium:
		return 255, 204, 0 // Yellow
	case domain.SeverityLow:
		return 52, 199, 89 // Green
	default:
		return 150, 150, 150 // Gray
	}
}

// addFooter adds the report footer
func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf) {
	// Move to bottom
	pdf.SetY(-20)

	// Separator line
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	// Footer text
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Generated by ThreatLens | Data source: NVD CVE API 2.0", "", 1, "C", false, 0, "")
}
