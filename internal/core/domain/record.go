package domain

import "time"

// Record is a transformed row ready for persistence in the record store.
type Record struct {
	// ID is the record identifier. Empty until the store assigns one.
	ID string `json:"id"`

	// ContentType identifies the schema the record conforms to.
	ContentType string `json:"contentType"`

	// Fields maps field ids to transformed values. Before resolution a
	// value may be a DeferredReference; the store never sees one.
	Fields map[string]any `json:"fields"`

	// CreatedAt is when the record was first persisted.
	CreatedAt time.Time `json:"createdAt,omitempty"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// NewRecord creates an empty record for the given content type.
func NewRecord(contentType string) *Record {
	return &Record{
		ContentType: contentType,
		Fields:      make(map[string]any),
	}
}

// Reference is a resolved link to a persisted record or asset.
type Reference struct {
	// ID is the identifier of the referenced entity.
	ID string `json:"id"`

	// Target is what kind of entity is referenced.
	Target ReferenceTarget `json:"target"`
}

// DeferredReference is a placeholder produced by the value transform engine
// when a reference cell holds a lookup expression instead of a direct
// identifier. It means "resolve to the id of the record whose LookupField
// equals LookupValue". The reference resolver consumes and replaces it
// exactly once before the containing record is persisted.
type DeferredReference struct {
	// LookupField is the field to match against.
	LookupField string `json:"lookupField"`

	// LookupValue is the value to search for.
	LookupValue string `json:"lookupValue"`

	// Target is what kind of entity is referenced.
	Target ReferenceTarget `json:"target"`
}

// GeoPoint is a geographic coordinate.
type GeoPoint struct {
	// Lat is the latitude in degrees, in [-90, 90].
	Lat float64 `json:"lat"`

	// Lon is the longitude in degrees, in [-180, 180].
	Lon float64 `json:"lon"`
}

// ImportError describes one row that failed to transform, resolve or persist.
type ImportError struct {
	// Row is the 1-based spreadsheet row number, including the header offset.
	Row int `json:"row"`

	// Field is the target field that failed, when attributable.
	Field string `json:"field,omitempty"`

	// Message describes the failure.
	Message string `json:"message"`
}

// ImportResult summarises one import batch. Row failures are isolated:
// a failed row never aborts its siblings.
type ImportResult struct {
	// Created counts records created in the store.
	Created int `json:"created"`

	// Updated counts existing records that were overwritten.
	Updated int `json:"updated"`

	// Failed counts rows that produced an ImportError.
	Failed int `json:"failed"`

	// Errors lists the per-row failures.
	Errors []ImportError `json:"errors,omitempty"`
}
