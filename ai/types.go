package ai

import (
	"path/filepath"
	"strings"
)

// Document type hints passed to Completer.Summarize and ExtractFigures.
// They select the prompt framing and, for the mock provider, the canned
// response set.
const (
	DocTypeAnnualReport       = "annual_report"
	DocTypeQuarterlyReport    = "quarterly_report"
	DocTypeFinancialStatement = "financial_statement"
)

// DocTypes defines the valid document type hints.
var DocTypes = []string{
	DocTypeAnnualReport,
	DocTypeQuarterlyReport,
	DocTypeFinancialStatement,
}

// DetectDocType infers the document type hint from a filename.
// Unrecognized names default to annual report.
func DetectDocType(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(name, "annual") || strings.Contains(name, "10-k"):
		return DocTypeAnnualReport
	case strings.Contains(name, "quarter") || strings.Contains(name, "10-q"):
		return DocTypeQuarterlyReport
	case strings.Contains(name, "financial") || strings.Contains(name, "statement"):
		return DocTypeFinancialStatement
	default:
		return DocTypeAnnualReport
	}
}
