// Package file provides a schema provider that loads content type
// definitions from a JSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SchemaProvider = (*Provider)(nil)

// Provider serves field definitions parsed from a schema file.
//
// The file maps content type ids to their fields:
//
//	{
//	  "post": {
//	    "fields": [
//	      {"id": "title", "name": "Title", "kind": "ShortText", "required": true},
//	      {"id": "author", "name": "Author", "kind": "Reference", "referenceTarget": "Record"}
//	    ]
//	  }
//	}
type Provider struct {
	contentTypes map[string][]domain.FieldDefinition
}

type schemaFile map[string]struct {
	Fields []fieldJSON `json:"fields"`
}

type fieldJSON struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Kind            string         `json:"kind"`
	Required        bool           `json:"required"`
	Localized       bool           `json:"localized"`
	ReferenceTarget string         `json:"referenceTarget,omitempty"`
	ArrayItem       *arrayItemJSON `json:"arrayItem,omitempty"`
}

type arrayItemJSON struct {
	Kind            string `json:"kind"`
	ReferenceTarget string `json:"referenceTarget,omitempty"`
}

// NewProvider loads a schema file and validates every field definition.
func NewProvider(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}

// Parse builds a provider from raw schema JSON.
func Parse(data []byte) (*Provider, error) {
	var raw schemaFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	p := &Provider{contentTypes: make(map[string][]domain.FieldDefinition, len(raw))}
	for id, ct := range raw {
		fields := make([]domain.FieldDefinition, 0, len(ct.Fields))
		for _, f := range ct.Fields {
			def := domain.FieldDefinition{
				ID:              f.ID,
				Name:            f.Name,
				Kind:            domain.FieldKind(f.Kind),
				Required:        f.Required,
				Localized:       f.Localized,
				ReferenceTarget: domain.ReferenceTarget(f.ReferenceTarget),
			}
			if f.ArrayItem != nil {
				def.ArrayItem = &domain.ArrayItem{
					Kind:            domain.FieldKind(f.ArrayItem.Kind),
					ReferenceTarget: domain.ReferenceTarget(f.ArrayItem.ReferenceTarget),
				}
			}
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("content type %q: %w", id, err)
			}
			fields = append(fields, def)
		}
		p.contentTypes[id] = fields
	}
	return p, nil
}

// ContentType returns the field definitions for a content type id,
// in declaration order.
func (p *Provider) ContentType(_ context.Context, id string) ([]domain.FieldDefinition, error) {
	fields, ok := p.contentTypes[id]
	if !ok {
		return nil, fmt.Errorf("content type %q: %w", id, domain.ErrNotFound)
	}
	return fields, nil
}
