package domain

// ValidationIssue describes one problem found during preview validation.
// The same shape serves errors and warnings; severity is carried by which
// slice of the ValidationResult the issue lands in.
type ValidationIssue struct {
	// Row is the 1-based spreadsheet row number. Zero for schema-level issues.
	Row int `json:"row,omitempty"`

	// Field is the target field id the issue concerns.
	Field string `json:"field"`

	// Message describes the issue.
	Message string `json:"message"`

	// Value is the offending raw value, rendered as text.
	Value string `json:"value,omitempty"`
}

// ValidationResult is the outcome of a preview validation pass.
// Errors block import readiness; warnings and suggestions are advisory.
type ValidationResult struct {
	Errors      []ValidationIssue `json:"errors"`
	Warnings    []ValidationIssue `json:"warnings"`
	Suggestions []string          `json:"suggestions"`
}

// IsValid reports whether the pass found no blocking errors.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
