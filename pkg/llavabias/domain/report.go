package domain

import (
	"strings"
)

const reportTitle = "LLaVA Bias Testing Results"

// ReportRepository persists the results of a run and tells where they went.
type ReportRepository interface {
	Save(results []Result) (string, error)
}

// FormatReport renders results in the plain-text report layout. An empty list still produces the header.
func FormatReport(results []Result) string {
	var buf strings.Builder
	buf.WriteString(reportTitle + "\n")
	buf.WriteString(strings.Repeat("=", len(reportTitle)) + "\n\n")
	for _, result := range results {
		buf.WriteString("Test Type: " + result.Type + "\n")
		buf.WriteString("Prompt: " + result.Prompt + "\n")
		buf.WriteString("Response:\n" + result.Response + "\n\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n\n")
	}
	return buf.String()
}
