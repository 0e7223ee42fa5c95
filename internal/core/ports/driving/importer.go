package driving

import (
	"context"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

// MappingService proposes correspondences between source columns and target
// fields. It never fails outward: oracle errors degrade to the deterministic
// fallback matcher.
type MappingService interface {
	// Suggest returns one mapping per matchable source header. The fallback
	// path is a pure function of its inputs: same headers and fields yield
	// the same mappings in the same order on every call.
	Suggest(ctx context.Context, headers []string, fields []domain.FieldDefinition) []domain.FieldMapping
}

// ValidationService runs the bounded preview validation pass. It never
// fails: the result always carries zero or more issues.
type ValidationService interface {
	// Validate checks mapping coverage of required fields and samples the
	// first rows for per-cell type errors. Validation is a preview, not a
	// gate: all rows stay eligible for import regardless of its findings.
	Validate(rows []domain.ContentRow, mappings []domain.FieldMapping, schema []domain.FieldDefinition) domain.ValidationResult
}

// TransformService coerces raw cell values to their target field kinds.
type TransformService interface {
	// Transform converts one raw value according to the target field's
	// kind. It returns a *domain.TransformError when the value cannot be
	// coerced; it never silently drops data. For reference fields holding
	// a lookup expression, the returned value is a domain.DeferredReference.
	Transform(raw domain.CellValue, field domain.FieldDefinition) (any, error)
}

// RichTextService compiles lightweight markup into structured rich text.
type RichTextService interface {
	// Compile parses markup into a rich-text document. Any input compiles;
	// empty input yields a single empty paragraph.
	Compile(markup string) domain.RichTextDocument
}

// ResolverService replaces deferred references with record identifiers.
type ResolverService interface {
	// Resolve substitutes every DeferredReference in the record's fields
	// with a concrete Reference, querying the record store. It returns a
	// *domain.ResolutionError when a lookup matches no record; such a
	// failure is fatal for the containing row only.
	Resolve(ctx context.Context, rec *domain.Record) error
}

// ImportOptions configures one import batch.
type ImportOptions struct {
	// ContentType is the target content type id.
	ContentType string

	// Mappings overrides suggested mappings when non-nil. This is the
	// caller's accept-or-edit step between suggestion and transformation.
	Mappings []domain.FieldMapping

	// UpdateKey, when set, names the field used to detect an existing
	// record: rows whose key value matches an existing record update it
	// instead of creating a duplicate.
	UpdateKey string
}

// ImportService runs the full pipeline: read, map, validate, transform,
// resolve, persist.
type ImportService interface {
	// Run imports every row, isolating per-row failures, and returns the
	// batch result. Cancellation is checked between rows.
	Run(ctx context.Context, opts ImportOptions) (*domain.ImportResult, error)

	// Preview suggests mappings and validates without writing anything.
	Preview(ctx context.Context, opts ImportOptions) ([]domain.FieldMapping, domain.ValidationResult, error)
}
