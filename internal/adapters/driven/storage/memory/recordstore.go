// Package memory provides in-memory implementations of driven ports,
// used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
	}
}

// CreateRecord stores a new record, assigning an id when none is set.
func (s *RecordStore) CreateRecord(_ context.Context, rec *domain.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if _, exists := s.records[rec.ID]; exists {
		return "", fmt.Errorf("record %s: %w", rec.ID, domain.ErrInvalidInput)
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.records[rec.ID] = *rec
	return rec.ID, nil
}

// UpdateRecord overwrites an existing record.
func (s *RecordStore) UpdateRecord(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rec.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	s.records[rec.ID] = *rec
	return nil
}

// GetRecord retrieves a record by id.
func (s *RecordStore) GetRecord(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// FindRecordID answers the point query used during reference resolution.
// Only scalar text field values participate in lookups.
func (s *RecordStore) FindRecordID(_ context.Context, field, value string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, rec := range s.records {
		if v, ok := rec.Fields[field].(string); ok && v == value {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close releases resources.
func (s *RecordStore) Close() error {
	return nil
}
