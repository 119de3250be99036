package domain

import "testing"

func f(v float64) *float64 { return &v }

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  Severity
	}{
		{"nil score", nil, SeverityUnknown},
		{"max", f(10.0), SeverityCritical},
		{"critical lower bound", f(9.0), SeverityCritical},
		{"just below critical", f(8.9999), SeverityHigh},
		{"high lower bound", f(7.0), SeverityHigh},
		{"just below high", f(6.9999), SeverityMedium},
		{"medium lower bound", f(4.0), SeverityMedium},
		{"just below medium", f(3.9999), SeverityLow},
		{"low range", f(0.1), SeverityLow},
		{"zero", f(0), SeverityUnknown},
		{"negative", f(-1), SeverityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySeverity(tt.score); got != tt.want {
				t.Errorf("ClassifySeverity(%v) = %v; want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestClassifySeverityDeterministic(t *testing.T) {
	score := f(7.5)
	first := ClassifySeverity(score)
	for i := 0; i < 100; i++ {
		if got := ClassifySeverity(score); got != first {
			t.Fatalf("ClassifySeverity not deterministic: %v != %v", got, first)
		}
	}
}
