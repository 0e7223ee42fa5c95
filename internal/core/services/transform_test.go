package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

func newTransformer() *TransformerService {
	return NewTransformerService(NewRichTextCompiler())
}

func field(id string, kind domain.FieldKind) domain.FieldDefinition {
	return domain.FieldDefinition{ID: id, Name: id, Kind: kind}
}

func refField(id string) domain.FieldDefinition {
	f := field(id, domain.KindReference)
	f.ReferenceTarget = domain.TargetRecord
	return f
}

func requireTransformError(t *testing.T, err error, fieldID string) *domain.TransformError {
	t.Helper()
	var terr *domain.TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, fieldID, terr.Field)
	return terr
}

func TestTransform_Text(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell("  hello  "), field("title", domain.KindShortText))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = tr.Transform(domain.NumberCell(42), field("body", domain.KindLongText))
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestTransform_Integer(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell("17"), field("count", domain.KindInteger))
	require.NoError(t, err)
	assert.Equal(t, int64(17), v)

	v, err = tr.Transform(domain.NumberCell(3), field("count", domain.KindInteger))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	_, err = tr.Transform(domain.TextCell("3.5"), field("count", domain.KindInteger))
	terr := requireTransformError(t, err, "count")
	assert.Contains(t, terr.Reason, "whole number")
	assert.Equal(t, "3.5", terr.Value)

	_, err = tr.Transform(domain.TextCell("many"), field("count", domain.KindInteger))
	requireTransformError(t, err, "count")
}

func TestTransform_Decimal(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell("3.14"), field("price", domain.KindDecimal))
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)

	_, err = tr.Transform(domain.TextCell("not a number"), field("price", domain.KindDecimal))
	terr := requireTransformError(t, err, "price")
	assert.Contains(t, terr.Reason, "number")
}

func TestTransform_BooleanTotality(t *testing.T) {
	tr := newTransformer()
	f := field("published", domain.KindBoolean)

	for _, s := range []string{"true", "YES", "1", "y"} {
		v, err := tr.Transform(domain.TextCell(s), f)
		require.NoError(t, err, s)
		assert.Equal(t, true, v, s)
	}
	for _, s := range []string{"false", "NO", "0", "N"} {
		v, err := tr.Transform(domain.TextCell(s), f)
		require.NoError(t, err, s)
		assert.Equal(t, false, v, s)
	}

	_, err := tr.Transform(domain.TextCell("maybe"), f)
	terr := requireTransformError(t, err, "published")
	assert.Contains(t, terr.Reason, "boolean")

	// Native boolean cells pass through.
	v, err := tr.Transform(domain.BoolCell(true), f)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestTransform_DatePassThrough(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell(" 2024-06-01T12:00:00Z "), field("publishedAt", domain.KindDate))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:00:00Z", v)
}

func TestTransform_ReferenceDeferral(t *testing.T) {
	tr := newTransformer()
	f := refField("author")

	v, err := tr.Transform(domain.TextCell("lookup:slug:my-post"), f)
	require.NoError(t, err)
	assert.Equal(t, domain.DeferredReference{
		LookupField: "slug",
		LookupValue: "my-post",
		Target:      domain.TargetRecord,
	}, v)

	v, err = tr.Transform(domain.TextCell("entry123"), f)
	require.NoError(t, err)
	assert.Equal(t, domain.Reference{ID: "entry123", Target: domain.TargetRecord}, v)
}

func TestTransform_ReferenceLookupValueKeepsColons(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell("lookup:url:https://example.com/a"), refField("source"))
	require.NoError(t, err)
	assert.Equal(t, domain.DeferredReference{
		LookupField: "url",
		LookupValue: "https://example.com/a",
		Target:      domain.TargetRecord,
	}, v)
}

func TestTransform_ReferenceEmpty(t *testing.T) {
	tr := newTransformer()

	_, err := tr.Transform(domain.TextCell("   "), refField("author"))
	requireTransformError(t, err, "author")
}

func TestTransform_ArrayOfReferences(t *testing.T) {
	tr := newTransformer()
	f := field("related", domain.KindArray)
	f.ArrayItem = &domain.ArrayItem{Kind: domain.KindReference, ReferenceTarget: domain.TargetRecord}

	v, err := tr.Transform(domain.TextCell("a1, b2,,c3 "), f)
	require.NoError(t, err)
	assert.Equal(t, []domain.Reference{
		{ID: "a1", Target: domain.TargetRecord},
		{ID: "b2", Target: domain.TargetRecord},
		{ID: "c3", Target: domain.TargetRecord},
	}, v)
}

func TestTransform_ArrayElementsDoNotSupportLookup(t *testing.T) {
	tr := newTransformer()
	f := field("related", domain.KindArray)
	f.ArrayItem = &domain.ArrayItem{Kind: domain.KindReference, ReferenceTarget: domain.TargetRecord}

	// A lookup-shaped element stays a literal identifier inside arrays.
	v, err := tr.Transform(domain.TextCell("lookup:slug:x"), f)
	require.NoError(t, err)
	assert.Equal(t, []domain.Reference{
		{ID: "lookup:slug:x", Target: domain.TargetRecord},
	}, v)
}

func TestTransform_ArrayOfTags(t *testing.T) {
	tr := newTransformer()
	f := field("tags", domain.KindArray)
	f.ArrayItem = &domain.ArrayItem{Kind: domain.KindShortText}

	v, err := tr.Transform(domain.TextCell("go, cli , import"), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "cli", "import"}, v)
}

func TestTransform_StructuredText(t *testing.T) {
	tr := newTransformer()

	v, err := tr.Transform(domain.TextCell("# Hi"), field("body", domain.KindStructuredText))
	require.NoError(t, err)

	doc, ok := v.(domain.RichTextDocument)
	require.True(t, ok)
	require.Len(t, doc.Content, 1)
	assert.Equal(t, domain.NodeHeading, doc.Content[0].Kind)
}

func TestTransform_JSONObject(t *testing.T) {
	tr := newTransformer()
	f := field("meta", domain.KindJSONObject)

	v, err := tr.Transform(domain.TextCell(`{"a": 1}`), f)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)

	_, err = tr.Transform(domain.TextCell(`[1,2]`), f)
	terr := requireTransformError(t, err, "meta")
	assert.Contains(t, terr.Reason, "not an object")

	_, err = tr.Transform(domain.TextCell(`{broken`), f)
	terr = requireTransformError(t, err, "meta")
	assert.Contains(t, terr.Reason, "invalid JSON")
}

func TestTransform_GeoPointBounds(t *testing.T) {
	tr := newTransformer()
	f := field("location", domain.KindGeoPoint)

	v, err := tr.Transform(domain.TextCell("90,180"), f)
	require.NoError(t, err)
	assert.Equal(t, domain.GeoPoint{Lat: 90, Lon: 180}, v)

	v, err = tr.Transform(domain.TextCell(" -52.1 , 0.5 "), f)
	require.NoError(t, err)
	assert.Equal(t, domain.GeoPoint{Lat: -52.1, Lon: 0.5}, v)

	_, err = tr.Transform(domain.TextCell("90.0001,0"), f)
	terr := requireTransformError(t, err, "location")
	assert.Contains(t, terr.Reason, "latitude")

	_, err = tr.Transform(domain.TextCell("0,-180.0001"), f)
	terr = requireTransformError(t, err, "location")
	assert.Contains(t, terr.Reason, "longitude")

	_, err = tr.Transform(domain.TextCell("1,2,3"), f)
	requireTransformError(t, err, "location")

	_, err = tr.Transform(domain.TextCell("north,south"), f)
	requireTransformError(t, err, "location")
}
