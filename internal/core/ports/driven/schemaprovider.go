package driven

import (
	"context"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

// SchemaProvider supplies the ordered field definitions of a content type.
// A provider failure is fatal to the enclosing operation; core does not
// degrade without a schema.
type SchemaProvider interface {
	// ContentType returns the field definitions for the given content type
	// id, in declaration order. Returns domain.ErrNotFound for unknown ids.
	ContentType(ctx context.Context, id string) ([]domain.FieldDefinition, error)
}
