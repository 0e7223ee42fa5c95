package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tablecast-cli/internal/logger"
)

// Ensure ValidatorService implements the interface.
var _ driving.ValidationService = (*ValidatorService)(nil)

const (
	// validationSampleLimit caps how many rows the per-cell check inspects.
	// All rows are still imported regardless; validation is a preview.
	validationSampleLimit = 100

	// reviewConfidenceFloor is the confidence below which a mapping earns
	// a review suggestion.
	reviewConfidenceFloor = 0.7

	// coverageConfidenceFloor is the confidence below which a mapping does
	// not count as covering a required field.
	coverageConfidenceFloor = 0.5
)

// ValidatorService runs the bounded preview validation pass.
type ValidatorService struct{}

// NewValidatorService creates a new validator service.
func NewValidatorService() *ValidatorService {
	return &ValidatorService{}
}

// Validate performs two independent checks: required-field coverage at the
// schema level, and per-cell type checks over a bounded sample of rows.
// It never fails; the result always carries zero or more issues.
func (s *ValidatorService) Validate(
	rows []domain.ContentRow, mappings []domain.FieldMapping, schema []domain.FieldDefinition,
) domain.ValidationResult {
	logger.Section("Preview Validation")
	logger.Debug("Rows: %d, mappings: %d, fields: %d", len(rows), len(mappings), len(schema))

	result := domain.ValidationResult{
		Errors:      []domain.ValidationIssue{},
		Warnings:    []domain.ValidationIssue{},
		Suggestions: []string{},
	}

	result.Warnings = append(result.Warnings, coverageWarnings(mappings, schema)...)

	sample := rows
	truncated := false
	if len(sample) > validationSampleLimit {
		sample = sample[:validationSampleLimit]
		truncated = true
	}

	fieldByID := make(map[string]domain.FieldDefinition, len(schema))
	for _, f := range schema {
		fieldByID[f.ID] = f
	}

	lowConfidence := false
	for _, m := range mappings {
		if m.Confidence < reviewConfidenceFloor {
			lowConfidence = true
		}
		field, ok := fieldByID[m.TargetField]
		if !ok {
			logger.Debug("Mapping targets unknown field %q, skipping cell checks", m.TargetField)
			continue
		}
		for i, row := range sample {
			if issue, bad := checkCell(row[m.SourceField], field, domain.RowNumber(i)); bad {
				result.Errors = append(result.Errors, issue)
			}
		}
	}

	if lowConfidence {
		result.Suggestions = append(result.Suggestions,
			"some mappings have low confidence; review them before importing")
	}
	if truncated {
		result.Suggestions = append(result.Suggestions, fmt.Sprintf(
			"only the first %d of %d rows were checked; all rows will still be imported",
			validationSampleLimit, len(rows)))
	}

	logger.Info("Validation found %d errors, %d warnings", len(result.Errors), len(result.Warnings))
	return result
}

// coverageWarnings reports required fields that no sufficiently confident
// mapping targets. These are warnings, not errors: the caller may still
// supply a default value for an unmapped field.
func coverageWarnings(mappings []domain.FieldMapping, schema []domain.FieldDefinition) []domain.ValidationIssue {
	warnings := []domain.ValidationIssue{}
	for _, f := range schema {
		if !f.Required {
			continue
		}

		// Last mapping targeting the field wins, mirroring how values
		// are applied during transformation.
		covered := false
		confidence := 0.0
		for _, m := range mappings {
			if m.TargetField == f.ID {
				covered = true
				confidence = m.Confidence
			}
		}

		switch {
		case !covered:
			warnings = append(warnings, domain.ValidationIssue{
				Field:   f.ID,
				Message: fmt.Sprintf("required field %q is not covered by any mapping", f.Name),
			})
		case confidence < coverageConfidenceFloor:
			warnings = append(warnings, domain.ValidationIssue{
				Field:   f.ID,
				Message: fmt.Sprintf("required field %q is mapped with low confidence (%.2f)", f.Name, confidence),
			})
		}
	}
	return warnings
}

// checkCell applies the cheap per-cell check for one mapped value.
// The empty-required check short-circuits everything else for the cell.
func checkCell(raw domain.CellValue, field domain.FieldDefinition, row int) (domain.ValidationIssue, bool) {
	if raw.IsEmpty() {
		if field.Required {
			return cellIssue(row, field, raw, "required field is empty"), true
		}
		return domain.ValidationIssue{}, false
	}

	switch field.Kind {
	case domain.KindInteger:
		if f, ok := numericCell(raw); !ok || f != math.Trunc(f) {
			return cellIssue(row, field, raw, "value is not a whole number"), true
		}

	case domain.KindDecimal:
		if _, ok := numericCell(raw); !ok {
			return cellIssue(row, field, raw, "value is not a number"), true
		}

	case domain.KindBoolean:
		if !isBooleanText(raw.String()) {
			return cellIssue(row, field, raw, "value is not a recognised boolean"), true
		}

	case domain.KindReference, domain.KindArray:
		// Non-empty is all the preview asks for. Reference existence is
		// confirmed at resolution time, not here; a check per row would
		// cost a store round-trip during preview.
		if strings.TrimSpace(raw.String()) == "" {
			return cellIssue(row, field, raw, "value is empty"), true
		}

	case domain.KindStructuredText:
		// Any non-empty string is valid markup source.

	case domain.KindJSONObject:
		if !isJSONObjectText(raw.String()) {
			return cellIssue(row, field, raw, "value is not a JSON object"), true
		}

	case domain.KindGeoPoint:
		// Bounds are deliberately not checked here; the transform stage
		// enforces them. A row can pass preview and still fail transform.
		if _, _, ok := geoPointParts(raw.String()); !ok {
			return cellIssue(row, field, raw, `value is not a "latitude,longitude" pair`), true
		}
	}

	return domain.ValidationIssue{}, false
}

func cellIssue(row int, field domain.FieldDefinition, raw domain.CellValue, msg string) domain.ValidationIssue {
	return domain.ValidationIssue{
		Row:     row,
		Field:   field.ID,
		Message: msg,
		Value:   raw.String(),
	}
}

func isBooleanText(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no", "1", "0", "y", "n":
		return true
	default:
		return false
	}
}

func isJSONObjectText(s string) bool {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return false
	}
	_, ok := v.(map[string]any)
	return ok
}
