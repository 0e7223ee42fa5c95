package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tablecast-cli/internal/logger"
)

// Ensure ResolverService implements the interface.
var _ driving.ResolverService = (*ResolverService)(nil)

// ResolverService replaces deferred references with concrete record
// identifiers. Resolution is the second phase of the two-phase protocol:
// the transform engine plants placeholders while the full field map is
// built, then this service settles them all before any write happens,
// so failures stay attributable per field.
type ResolverService struct {
	store driven.RecordStore
}

// NewResolverService creates a new resolver service.
func NewResolverService(store driven.RecordStore) *ResolverService {
	return &ResolverService{store: store}
}

// Resolve substitutes every DeferredReference in rec.Fields with a
// Reference holding the id of the matching record. A lookup that matches
// nothing returns a *domain.ResolutionError and is never retried; the
// missing referent will not appear during the same run. Store failures
// propagate as-is.
func (s *ResolverService) Resolve(ctx context.Context, rec *domain.Record) error {
	// Fields are visited in sorted order so a multi-placeholder record
	// always reports the same first failure.
	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		deferred, ok := rec.Fields[name].(domain.DeferredReference)
		if !ok {
			continue
		}

		logger.Debug("Resolving %s via %s = %q", name, deferred.LookupField, deferred.LookupValue)
		id, err := s.store.FindRecordID(ctx, deferred.LookupField, deferred.LookupValue)
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ResolutionError{
				Field:       name,
				LookupField: deferred.LookupField,
				LookupValue: deferred.LookupValue,
			}
		}
		if err != nil {
			return fmt.Errorf("resolving %s: %w", name, err)
		}

		rec.Fields[name] = domain.Reference{ID: id, Target: deferred.Target}
	}
	return nil
}
