package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
)

// Ensure TransformerService implements the interface.
var _ driving.TransformService = (*TransformerService)(nil)

// lookupPattern matches the lookup-expression grammar embedded in reference
// cells: "lookup:<fieldId>:<value>". The field id is the non-colon text
// between the first and second colon; the value is everything after the
// second colon and may itself contain colons.
var lookupPattern = regexp.MustCompile(`^lookup:([^:]+):(.*)$`)

// GeoPoint coordinate bounds, enforced at transform time only. Preview
// validation accepts any two-number string (see ValidatorService).
const (
	latMin, latMax = -90.0, 90.0
	lonMin, lonMax = -180.0, 180.0
)

// TransformerService is the value transform engine: it coerces one raw cell
// value to its target field kind, dispatching exhaustively on the kind.
type TransformerService struct {
	richtext driving.RichTextService
}

// NewTransformerService creates a new transformer service.
func NewTransformerService(richtext driving.RichTextService) *TransformerService {
	return &TransformerService{richtext: richtext}
}

// Transform converts raw according to field.Kind, returning the coerced
// value or a *domain.TransformError. Reference cells holding a lookup
// expression yield a domain.DeferredReference placeholder instead of an
// immediate identifier.
func (s *TransformerService) Transform(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	switch field.Kind {
	case domain.KindShortText, domain.KindLongText:
		return strings.TrimSpace(raw.String()), nil

	case domain.KindInteger:
		return transformInteger(raw, field)

	case domain.KindDecimal:
		f, ok := numericCell(raw)
		if !ok {
			return nil, transformErr(field, raw, "cannot convert to a number")
		}
		return f, nil

	case domain.KindBoolean:
		return transformBoolean(raw, field)

	case domain.KindDate:
		// Dates pass through untouched; the store validates ISO-8601.
		return strings.TrimSpace(raw.String()), nil

	case domain.KindReference:
		return transformReference(raw, field)

	case domain.KindArray:
		return transformArray(raw, field)

	case domain.KindStructuredText:
		return s.richtext.Compile(strings.TrimSpace(raw.String())), nil

	case domain.KindJSONObject:
		return transformJSONObject(raw, field)

	case domain.KindGeoPoint:
		return transformGeoPoint(raw, field)

	default:
		return nil, transformErr(field, raw, fmt.Sprintf("%v %q", domain.ErrUnsupportedKind, field.Kind))
	}
}

func transformInteger(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	f, ok := numericCell(raw)
	if !ok || f != math.Trunc(f) {
		return nil, transformErr(field, raw, "not a whole number")
	}
	return int64(f), nil
}

func transformBoolean(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	if raw.Kind == domain.CellBool {
		return raw.Bool, nil
	}
	b, ok := booleanToken(raw.String())
	if !ok {
		return nil, transformErr(field, raw, "cannot convert to boolean")
	}
	return b, nil
}

func transformReference(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	v := strings.TrimSpace(raw.String())
	if v == "" {
		return nil, transformErr(field, raw, "reference identifier is empty")
	}
	if m := lookupPattern.FindStringSubmatch(v); m != nil {
		return domain.DeferredReference{
			LookupField: m[1],
			LookupValue: m[2],
			Target:      field.ReferenceTarget,
		}, nil
	}
	return domain.Reference{ID: v, Target: field.ReferenceTarget}, nil
}

// transformArray splits a comma-separated list and transforms each element
// by the array's item kind. Reference elements are always direct
// identifiers: lookup expressions are not recognised inside arrays.
func transformArray(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	if field.ArrayItem == nil {
		return nil, transformErr(field, raw, "array field without item kind")
	}

	pieces := splitList(raw.String())

	switch field.ArrayItem.Kind {
	case domain.KindReference:
		refs := make([]domain.Reference, 0, len(pieces))
		for _, p := range pieces {
			refs = append(refs, domain.Reference{ID: p, Target: field.ArrayItem.ReferenceTarget})
		}
		return refs, nil

	case domain.KindShortText:
		return pieces, nil

	default:
		return nil, transformErr(field, raw,
			fmt.Sprintf("%v %q for array items", domain.ErrUnsupportedKind, field.ArrayItem.Kind))
	}
}

func transformJSONObject(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw.String()), &v); err != nil {
		return nil, transformErr(field, raw, fmt.Sprintf("invalid JSON: %v", err))
	}
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return nil, transformErr(field, raw, "JSON value is not an object")
	}
	return obj, nil
}

func transformGeoPoint(raw domain.CellValue, field domain.FieldDefinition) (any, error) {
	lat, lon, ok := geoPointParts(raw.String())
	if !ok {
		return nil, transformErr(field, raw, `expected "latitude,longitude"`)
	}
	if lat < latMin || lat > latMax {
		return nil, transformErr(field, raw, "latitude out of range [-90, 90]")
	}
	if lon < lonMin || lon > lonMax {
		return nil, transformErr(field, raw, "longitude out of range [-180, 180]")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

func transformErr(field domain.FieldDefinition, raw domain.CellValue, reason string) *domain.TransformError {
	return &domain.TransformError{Field: field.ID, Value: raw.String(), Reason: reason}
}

// --- Shared coercion helpers ---
//
// The preview validator reuses these so validation and transformation
// agree on what counts as a number, a boolean and a coordinate pair.
// Range bounds are the one deliberate exception: the validator accepts
// any coordinate pair, the transformer enforces bounds.

// numericCell coerces a cell to a finite float64.
func numericCell(c domain.CellValue) (float64, bool) {
	switch c.Kind {
	case domain.CellNumber:
		return c.Number, !math.IsInf(c.Number, 0) && !math.IsNaN(c.Number)
	case domain.CellText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// booleanToken matches the accepted spellings of a boolean cell.
func booleanToken(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y":
		return true, true
	case "false", "no", "0", "n":
		return false, true
	default:
		return false, false
	}
}

// splitList splits an always-comma-separated list, trims each piece and
// drops empty pieces. A single value without commas is a one-element list.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// geoPointParts parses "lat,lon" into two finite numbers.
func geoPointParts(s string) (lat, lon float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if math.IsInf(lat, 0) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsNaN(lon) {
		return 0, 0, false
	}
	return lat, lon, true
}
