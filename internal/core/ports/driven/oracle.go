package driven

import (
	"context"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

// MappingOracle suggests source-to-target field mappings.
// This is an optional service - when nil, suggestion degrades to the
// deterministic fallback matcher.
//
// The oracle's own budgeting, rate limiting and session state are the
// adapter's concern; core treats "unavailable or exhausted" as a plain
// error return.
type MappingOracle interface {
	// SuggestMappings proposes mappings from source headers to target
	// fields, with confidence scores. An error or malformed output never
	// surfaces to callers of the mapping service; it triggers the fallback.
	SuggestMappings(ctx context.Context, headers []string, fields []domain.FieldDescriptor) ([]domain.FieldMapping, error)

	// ModelName returns the name of the model backing the oracle.
	ModelName() string

	// Close releases resources.
	Close() error
}
