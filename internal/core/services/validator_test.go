package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

func mappingTo(source, target string, confidence float64) domain.FieldMapping {
	return domain.FieldMapping{SourceField: source, TargetField: target, Confidence: confidence}
}

func rowsOf(column string, values ...string) []domain.ContentRow {
	rows := make([]domain.ContentRow, len(values))
	for i, v := range values {
		if v == "" {
			rows[i] = domain.ContentRow{column: domain.AbsentCell()}
		} else {
			rows[i] = domain.ContentRow{column: domain.TextCell(v)}
		}
	}
	return rows
}

func TestValidate_RequiredFieldUnmappedIsWarning(t *testing.T) {
	v := NewValidatorService()
	schema := []domain.FieldDefinition{
		{ID: "title", Name: "Title", Kind: domain.KindShortText, Required: true},
	}

	result := v.Validate(nil, nil, schema)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "title", result.Warnings[0].Field)
	assert.Contains(t, result.Warnings[0].Message, "not covered")
	assert.True(t, result.IsValid(), "coverage gaps are advisory, not blocking")
}

func TestValidate_RequiredFieldLowConfidenceIsWarning(t *testing.T) {
	v := NewValidatorService()
	schema := []domain.FieldDefinition{
		{ID: "title", Name: "Title", Kind: domain.KindShortText, Required: true},
	}
	mappings := []domain.FieldMapping{mappingTo("Col A", "title", 0.4)}

	result := v.Validate(nil, mappings, schema)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "low confidence")
}

func TestValidate_RequiredEmptyCellIsError(t *testing.T) {
	v := NewValidatorService()
	schema := []domain.FieldDefinition{
		{ID: "title", Name: "Title", Kind: domain.KindShortText, Required: true},
	}
	mappings := []domain.FieldMapping{mappingTo("Title", "title", 0.8)}
	rows := rowsOf("Title", "ok", "")

	result := v.Validate(rows, mappings, schema)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.RowNumber(1), result.Errors[0].Row)
	assert.Equal(t, "required field is empty", result.Errors[0].Message)
	assert.False(t, result.IsValid())
}

func TestValidate_PerCellKindChecks(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.FieldKind
		value   string
		wantErr bool
	}{
		{"integer ok", domain.KindInteger, "12", false},
		{"integer fractional", domain.KindInteger, "12.5", true},
		{"integer junk", domain.KindInteger, "twelve", true},
		{"decimal ok", domain.KindDecimal, "12.5", false},
		{"decimal junk", domain.KindDecimal, "abc", true},
		{"boolean ok yes", domain.KindBoolean, "Yes", false},
		{"boolean ok n", domain.KindBoolean, "N", false},
		{"boolean junk", domain.KindBoolean, "maybe", true},
		{"reference non-empty ok", domain.KindReference, "lookup:slug:x", false},
		{"array single value ok", domain.KindArray, "solo", false},
		{"structured text anything ok", domain.KindStructuredText, "# whatever **goes**", false},
		{"json object ok", domain.KindJSONObject, `{"a":1}`, false},
		{"json array rejected", domain.KindJSONObject, `[1]`, true},
		{"json junk rejected", domain.KindJSONObject, `{oops`, true},
		{"geopoint ok", domain.KindGeoPoint, "10,20", false},
		{"geopoint out-of-range accepted in preview", domain.KindGeoPoint, "95,200", false},
		{"geopoint three parts", domain.KindGeoPoint, "1,2,3", true},
		{"geopoint junk", domain.KindGeoPoint, "here", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidatorService()
			schema := []domain.FieldDefinition{{ID: "f", Name: "F", Kind: tt.kind}}
			mappings := []domain.FieldMapping{mappingTo("col", "f", 0.8)}
			rows := rowsOf("col", tt.value)

			result := v.Validate(rows, mappings, schema)

			if tt.wantErr {
				require.Len(t, result.Errors, 1)
				assert.Equal(t, tt.value, result.Errors[0].Value)
			} else {
				assert.Empty(t, result.Errors)
			}
		})
	}
}

func TestValidate_OptionalEmptyCellIsFine(t *testing.T) {
	// Empty optional cells are dropped before transform at import time, so
	// the preview skips them for every kind, references and arrays included.
	kinds := []struct {
		name  string
		field domain.FieldDefinition
	}{
		{"integer", domain.FieldDefinition{ID: "count", Name: "Count", Kind: domain.KindInteger}},
		{"reference", domain.FieldDefinition{ID: "author", Name: "Author", Kind: domain.KindReference, ReferenceTarget: domain.TargetRecord}},
		{"array", domain.FieldDefinition{ID: "tags", Name: "Tags", Kind: domain.KindArray, ArrayItem: &domain.ArrayItem{Kind: domain.KindShortText}}},
	}

	for _, tt := range kinds {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidatorService()
			mappings := []domain.FieldMapping{mappingTo("col", tt.field.ID, 0.8)}
			rows := rowsOf("col", "")

			result := v.Validate(rows, mappings, []domain.FieldDefinition{tt.field})

			assert.Empty(t, result.Errors)
		})
	}
}

func TestValidate_LowConfidenceSuggestion(t *testing.T) {
	v := NewValidatorService()
	schema := []domain.FieldDefinition{{ID: "f", Name: "F", Kind: domain.KindShortText}}
	mappings := []domain.FieldMapping{mappingTo("col", "f", 0.5)}

	result := v.Validate(nil, mappings, schema)

	require.Len(t, result.Suggestions, 1)
	assert.Contains(t, result.Suggestions[0], "review")
}

func TestValidate_SamplingCap(t *testing.T) {
	v := NewValidatorService()
	schema := []domain.FieldDefinition{{ID: "count", Name: "Count", Kind: domain.KindInteger}}
	mappings := []domain.FieldMapping{mappingTo("col", "count", 0.8)}

	// 150 rows, every one of them invalid. Only the first 100 may be
	// inspected, and the truncation hint must appear.
	values := make([]string, 150)
	for i := range values {
		values[i] = fmt.Sprintf("bad-%d", i)
	}
	rows := rowsOf("col", values...)

	result := v.Validate(rows, mappings, schema)

	assert.Len(t, result.Errors, 100)
	require.NotEmpty(t, result.Suggestions)
	found := false
	for _, s := range result.Suggestions {
		if s == "only the first 100 of 150 rows were checked; all rows will still be imported" {
			found = true
		}
	}
	assert.True(t, found, "truncation suggestion expected, got %v", result.Suggestions)
}

func TestValidate_NeverReturnsNilSlices(t *testing.T) {
	v := NewValidatorService()

	result := v.Validate(nil, nil, nil)

	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.Warnings)
	assert.NotNil(t, result.Suggestions)
	assert.True(t, result.IsValid())
}
