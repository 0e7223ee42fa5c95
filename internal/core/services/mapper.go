package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tablecast-cli/internal/logger"
)

// Ensure MapperService implements the interface.
var _ driving.MappingService = (*MapperService)(nil)

// Fallback matcher confidence levels.
const (
	// confidenceExact is assigned when a normalised header equals a
	// normalised field id or name.
	confidenceExact = 0.8

	// confidencePartial is assigned when one normalised string contains
	// the other.
	confidencePartial = 0.5
)

// MapperService suggests field mappings, consulting the oracle when one is
// configured and falling back to a deterministic string matcher otherwise.
type MapperService struct {
	oracle driven.MappingOracle
}

// NewMapperService creates a new mapper service.
// The oracle parameter is optional (can be nil).
func NewMapperService(oracle driven.MappingOracle) *MapperService {
	return &MapperService{oracle: oracle}
}

// Suggest returns one mapping per matchable source header.
//
// The oracle's answer is returned verbatim when it is well formed. Oracle
// errors and malformed output degrade silently to the fallback matcher;
// suggestion never fails outward.
func (s *MapperService) Suggest(
	ctx context.Context, headers []string, fields []domain.FieldDefinition,
) []domain.FieldMapping {
	logger.Section("Mapping Suggestion")
	logger.Debug("Headers: %d, target fields: %d", len(headers), len(fields))

	if s.oracle != nil {
		mappings, err := s.oracle.SuggestMappings(ctx, headers, domain.Descriptors(fields))
		switch {
		case err != nil:
			logger.Warn("Oracle failed, using fallback matcher: %v", err)
		case !wellFormed(mappings, headers, fields):
			logger.Warn("Oracle returned malformed mappings, using fallback matcher")
		default:
			logger.Info("Oracle (%s) suggested %d mappings", s.oracle.ModelName(), len(mappings))
			return mappings
		}
	} else {
		logger.Debug("No oracle configured, using fallback matcher")
	}

	return fallbackSuggest(headers, fields)
}

// fallbackSuggest is the deterministic matcher: a pure function of its
// inputs. For each header it scans the fields in declaration order, first
// for an exact normalised match, then for substring containment in either
// direction. The first match wins; headers with no match yield no mapping.
func fallbackSuggest(headers []string, fields []domain.FieldDefinition) []domain.FieldMapping {
	mappings := make([]domain.FieldMapping, 0, len(headers))

	for _, header := range headers {
		key := normalizeKey(header)
		if key == "" {
			continue
		}

		if m, ok := exactMatch(header, key, fields); ok {
			mappings = append(mappings, m)
			continue
		}
		if m, ok := partialMatch(header, key, fields); ok {
			mappings = append(mappings, m)
		}
	}

	logger.Debug("Fallback matcher produced %d mappings", len(mappings))
	return mappings
}

func exactMatch(header, key string, fields []domain.FieldDefinition) (domain.FieldMapping, bool) {
	for _, f := range fields {
		if key == normalizeKey(f.ID) || key == normalizeKey(f.Name) {
			return domain.FieldMapping{
				SourceField: header,
				TargetField: f.ID,
				Confidence:  confidenceExact,
			}, true
		}
	}
	return domain.FieldMapping{}, false
}

func partialMatch(header, key string, fields []domain.FieldDefinition) (domain.FieldMapping, bool) {
	for _, f := range fields {
		if contains(key, normalizeKey(f.ID)) || contains(key, normalizeKey(f.Name)) {
			return domain.FieldMapping{
				SourceField: header,
				TargetField: f.ID,
				Confidence:  confidencePartial,
			}, true
		}
	}
	return domain.FieldMapping{}, false
}

// contains reports substring containment in either direction.
// Empty strings never match anything.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// normalizeKey lower-cases a string and strips everything that is not a
// letter or digit, so "Product Name" and "product_name" compare equal.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wellFormed checks an oracle response before trusting it verbatim: every
// source must be a known header, every target a known field id, every
// confidence within [0,1], and no source may appear twice. A response that
// fails any of these is discarded whole; partial merges would make the
// outcome non-attributable.
func wellFormed(mappings []domain.FieldMapping, headers []string, fields []domain.FieldDefinition) bool {
	if len(mappings) == 0 {
		return false
	}

	knownHeaders := make(map[string]bool, len(headers))
	for _, h := range headers {
		knownHeaders[h] = true
	}
	knownFields := make(map[string]bool, len(fields))
	for _, f := range fields {
		knownFields[f.ID] = true
	}

	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if !knownHeaders[m.SourceField] || !knownFields[m.TargetField] {
			return false
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			return false
		}
		if seen[m.SourceField] {
			return false
		}
		seen[m.SourceField] = true
	}
	return true
}
