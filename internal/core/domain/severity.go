package domain

// Severity is the discrete tier derived from a CVSS base score.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityUnknown  Severity = "Unknown"
)

// Severities lists all tiers in descending order of urgency.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityUnknown,
}

// ClassifySeverity maps a CVSS base score to a severity tier.
// Thresholds follow the CVSS v3.x/v4.0 qualitative rating scale with
// inclusive lower bounds:
//
//	nil       -> Unknown
//	>= 9.0    -> Critical
//	>= 7.0    -> High
//	>= 4.0    -> Medium
//	>  0      -> Low
//	<= 0      -> Unknown
func ClassifySeverity(score *float64) Severity {
	if score == nil {
		return SeverityUnknown
	}
	s := *score
	switch {
	case s >= 9.0:
		return SeverityCritical
	case s >= 7.0:
		return SeverityHigh
	case s >= 4.0:
		return SeverityMedium
	case s > 0:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}
