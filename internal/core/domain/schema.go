package domain

import "fmt"

// FieldKind identifies the primitive or structured type of a target field.
type FieldKind string

// Field kinds supported by the value transform engine.
const (
	KindShortText      FieldKind = "ShortText"
	KindLongText       FieldKind = "LongText"
	KindInteger        FieldKind = "Integer"
	KindDecimal        FieldKind = "Decimal"
	KindBoolean        FieldKind = "Boolean"
	KindDate           FieldKind = "Date"
	KindReference      FieldKind = "Reference"
	KindArray          FieldKind = "Array"
	KindStructuredText FieldKind = "StructuredText"
	KindJSONObject     FieldKind = "JsonObject"
	KindGeoPoint       FieldKind = "GeoPoint"
)

// ReferenceTarget identifies what kind of entity a reference points at.
type ReferenceTarget string

const (
	// TargetRecord references another content record.
	TargetRecord ReferenceTarget = "Record"

	// TargetAsset references a binary asset.
	TargetAsset ReferenceTarget = "Asset"
)

// ArrayItem describes the element type of an array field.
type ArrayItem struct {
	// Kind is the element kind (ShortText or Reference in practice).
	Kind FieldKind

	// ReferenceTarget is set when Kind is Reference.
	ReferenceTarget ReferenceTarget
}

// FieldDefinition describes one typed field of a target content type.
type FieldDefinition struct {
	// ID is the field identifier, unique within a content type.
	ID string

	// Name is the human-readable display name.
	Name string

	// Kind is the field's primitive kind.
	Kind FieldKind

	// Required marks fields that must hold a value in a finished record.
	Required bool

	// Localized marks fields that hold per-locale values.
	Localized bool

	// ReferenceTarget is set when Kind is Reference.
	ReferenceTarget ReferenceTarget

	// ArrayItem describes the element type when Kind is Array.
	ArrayItem *ArrayItem
}

var knownKinds = map[FieldKind]bool{
	KindShortText:      true,
	KindLongText:       true,
	KindInteger:        true,
	KindDecimal:        true,
	KindBoolean:        true,
	KindDate:           true,
	KindReference:      true,
	KindArray:          true,
	KindStructuredText: true,
	KindJSONObject:     true,
	KindGeoPoint:       true,
}

// Validate checks the structural invariants of a field definition.
func (f FieldDefinition) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("field definition: %w: missing id", ErrInvalidInput)
	}
	if !knownKinds[f.Kind] {
		return fmt.Errorf("field %q: %w: %q", f.ID, ErrUnsupportedKind, f.Kind)
	}
	if f.Kind == KindArray && f.ArrayItem == nil {
		return fmt.Errorf("field %q: %w: array field without item kind", f.ID, ErrInvalidInput)
	}
	if f.Kind == KindReference && f.ReferenceTarget == "" {
		return fmt.Errorf("field %q: %w: reference field without target", f.ID, ErrInvalidInput)
	}
	return nil
}

// FieldDescriptor is the reduced field shape sent to the mapping oracle.
type FieldDescriptor struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// Descriptors reduces full field definitions to oracle descriptors,
// preserving declaration order.
func Descriptors(fields []FieldDefinition) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		out[i] = FieldDescriptor{ID: f.ID, Name: f.Name, Kind: f.Kind}
	}
	return out
}
