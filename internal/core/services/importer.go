package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tablecast-cli/internal/logger"
)

// Ensure ImporterService implements the interface.
var _ driving.ImportService = (*ImporterService)(nil)

// ImporterService orchestrates the import pipeline: read the table, suggest
// mappings, validate as a preview, then transform, resolve and persist each
// row. Row failures are isolated; a failed row never aborts its siblings.
type ImporterService struct {
	reader      driven.TableReader
	schemas     driven.SchemaProvider
	store       driven.RecordStore
	mapper      driving.MappingService
	validator   driving.ValidationService
	transformer driving.TransformService
	resolver    driving.ResolverService
}

// NewImporterService creates a new importer service.
func NewImporterService(
	reader driven.TableReader,
	schemas driven.SchemaProvider,
	store driven.RecordStore,
	mapper driving.MappingService,
	validator driving.ValidationService,
	transformer driving.TransformService,
	resolver driving.ResolverService,
) *ImporterService {
	return &ImporterService{
		reader:      reader,
		schemas:     schemas,
		store:       store,
		mapper:      mapper,
		validator:   validator,
		transformer: transformer,
		resolver:    resolver,
	}
}

// Preview suggests mappings and runs preview validation without writing
// anything to the record store.
func (s *ImporterService) Preview(
	ctx context.Context, opts driving.ImportOptions,
) ([]domain.FieldMapping, domain.ValidationResult, error) {
	fields, headers, rows, err := s.load(ctx, opts.ContentType)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	mappings := opts.Mappings
	if mappings == nil {
		mappings = s.mapper.Suggest(ctx, headers, fields)
	}

	return mappings, s.validator.Validate(rows, mappings, fields), nil
}

// Run imports every row of the table. Validation findings are advisory and
// logged; they do not gate the import. Cancellation is cooperative and
// checked between rows, never within one row's transform.
func (s *ImporterService) Run(ctx context.Context, opts driving.ImportOptions) (*domain.ImportResult, error) {
	fields, headers, rows, err := s.load(ctx, opts.ContentType)
	if err != nil {
		return nil, err
	}

	mappings := opts.Mappings
	if mappings == nil {
		mappings = s.mapper.Suggest(ctx, headers, fields)
	}

	validation := s.validator.Validate(rows, mappings, fields)
	for _, w := range validation.Warnings {
		logger.Warn("%s", w.Message)
	}
	for _, hint := range validation.Suggestions {
		logger.Info("%s", hint)
	}

	fieldByID := make(map[string]domain.FieldDefinition, len(fields))
	for _, f := range fields {
		fieldByID[f.ID] = f
	}

	logger.Section("Import")
	result := &domain.ImportResult{}

	for i, row := range rows {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.importRow(ctx, domain.RowNumber(i), row, mappings, fieldByID, opts, result); err != nil {
			return result, err
		}
	}

	logger.Info("Import finished: %d created, %d updated, %d failed",
		result.Created, result.Updated, result.Failed)
	return result, nil
}

// importRow processes a single row. Transform and resolution failures are
// recorded as per-row import errors; store failures are fatal to the whole
// operation since they signal a broken collaborator, not a broken row.
func (s *ImporterService) importRow(
	ctx context.Context,
	rowNum int,
	row domain.ContentRow,
	mappings []domain.FieldMapping,
	fieldByID map[string]domain.FieldDefinition,
	opts driving.ImportOptions,
	result *domain.ImportResult,
) error {
	rec, err := s.buildRecord(row, mappings, fieldByID, opts.ContentType)
	if err == nil {
		err = s.resolver.Resolve(ctx, rec)
	}
	if err != nil {
		if !isRowError(err) {
			return fmt.Errorf("resolving row %d: %w", rowNum, err)
		}
		recordRowError(result, rowNum, err)
		return nil
	}

	if opts.UpdateKey != "" {
		updated, uerr := s.tryUpdate(ctx, rec, opts.UpdateKey)
		if uerr != nil {
			return uerr
		}
		if updated {
			result.Updated++
			return nil
		}
	}

	if _, err := s.store.CreateRecord(ctx, rec); err != nil {
		return fmt.Errorf("creating record for row %d: %w", rowNum, err)
	}
	result.Created++
	return nil
}

// tryUpdate overwrites an existing record when one matches the update key.
func (s *ImporterService) tryUpdate(ctx context.Context, rec *domain.Record, key string) (bool, error) {
	value, ok := rec.Fields[key].(string)
	if !ok || value == "" {
		return false, nil
	}

	id, err := s.store.FindRecordID(ctx, key, value)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up existing record by %s: %w", key, err)
	}

	rec.ID = id
	if err := s.store.UpdateRecord(ctx, rec); err != nil {
		return false, fmt.Errorf("updating record %s: %w", id, err)
	}
	logger.Debug("Updated existing record %s (%s = %q)", id, key, value)
	return true, nil
}

// buildRecord is the first phase of the two-phase protocol: the full field
// map is assembled, with DeferredReference placeholders where reference
// cells held lookup expressions. Mappings apply in order; when several
// target the same field the last applied wins.
func (s *ImporterService) buildRecord(
	row domain.ContentRow,
	mappings []domain.FieldMapping,
	fieldByID map[string]domain.FieldDefinition,
	contentType string,
) (*domain.Record, error) {
	rec := domain.NewRecord(contentType)

	for _, m := range mappings {
		field, ok := fieldByID[m.TargetField]
		if !ok {
			continue
		}
		raw, ok := row[m.SourceField]
		if !ok || raw.IsEmpty() {
			continue
		}

		value, err := s.transformer.Transform(raw, field)
		if err != nil {
			return nil, err
		}
		rec.Fields[field.ID] = value
	}

	return rec, nil
}

func (s *ImporterService) load(
	ctx context.Context, contentType string,
) ([]domain.FieldDefinition, []string, []domain.ContentRow, error) {
	if contentType == "" {
		return nil, nil, nil, fmt.Errorf("%w: content type is required", domain.ErrInvalidInput)
	}

	fields, err := s.schemas.ContentType(ctx, contentType)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading content type %q: %w", contentType, err)
	}
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, nil, nil, err
		}
	}

	headers, rows, err := s.reader.ReadTable(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading table: %w", err)
	}
	logger.Debug("Loaded %d rows with %d columns", len(rows), len(headers))

	return fields, headers, rows, nil
}

// isRowError reports whether err describes a failure of the row itself.
// Anything else during transform or resolution signals a broken
// collaborator and must abort the whole operation.
func isRowError(err error) bool {
	var terr *domain.TransformError
	var rerr *domain.ResolutionError
	return errors.As(err, &terr) || errors.As(err, &rerr)
}

// recordRowError converts a per-row failure into an ImportError, pulling
// the field id out of typed transform and resolution errors.
func recordRowError(result *domain.ImportResult, rowNum int, err error) {
	ie := domain.ImportError{Row: rowNum, Message: err.Error()}

	var terr *domain.TransformError
	var rerr *domain.ResolutionError
	switch {
	case errors.As(err, &terr):
		ie.Field = terr.Field
	case errors.As(err, &rerr):
		ie.Field = rerr.Field
	}

	logger.Warn("Row %d failed: %s", rowNum, ie.Message)
	result.Errors = append(result.Errors, ie)
	result.Failed++
}
