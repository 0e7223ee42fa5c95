package driven

import (
	"context"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

// RecordStore persists finished records and answers the point query used
// during reference resolution. A record handed to the store never contains
// a DeferredReference; the resolver replaces all placeholders first.
type RecordStore interface {
	// CreateRecord persists a new record and returns its assigned id.
	CreateRecord(ctx context.Context, rec *domain.Record) (string, error)

	// UpdateRecord overwrites an existing record identified by rec.ID.
	UpdateRecord(ctx context.Context, rec *domain.Record) error

	// GetRecord retrieves a record by id.
	GetRecord(ctx context.Context, id string) (*domain.Record, error)

	// FindRecordID returns the id of the record whose field equals value.
	// Returns domain.ErrNotFound when no record matches.
	FindRecordID(ctx context.Context, field, value string) (string, error)

	// Close releases resources.
	Close() error
}
