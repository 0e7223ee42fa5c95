package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

func TestCreateRecord_AssignsID(t *testing.T) {
	store := NewRecordStore()

	rec := domain.NewRecord("post")
	rec.Fields["title"] = "Hello"

	id, err := store.CreateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.Len())

	got, err := store.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Fields["title"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateRecord_DuplicateIDFails(t *testing.T) {
	store := NewRecordStore()

	rec := domain.NewRecord("post")
	rec.ID = "fixed"
	_, err := store.CreateRecord(context.Background(), rec)
	require.NoError(t, err)

	dup := domain.NewRecord("post")
	dup.ID = "fixed"
	_, err = store.CreateRecord(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateRecord(t *testing.T) {
	store := NewRecordStore()

	rec := domain.NewRecord("post")
	rec.Fields["title"] = "v1"
	id, err := store.CreateRecord(context.Background(), rec)
	require.NoError(t, err)

	rec.Fields["title"] = "v2"
	require.NoError(t, store.UpdateRecord(context.Background(), rec))

	got, err := store.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Fields["title"])

	missing := domain.NewRecord("post")
	missing.ID = "nope"
	assert.ErrorIs(t, store.UpdateRecord(context.Background(), missing), domain.ErrNotFound)
}

func TestGetRecord_NotFound(t *testing.T) {
	store := NewRecordStore()

	_, err := store.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindRecordID(t *testing.T) {
	store := NewRecordStore()

	rec := domain.NewRecord("author")
	rec.Fields["slug"] = "jane"
	rec.Fields["age"] = int64(30)
	id, err := store.CreateRecord(context.Background(), rec)
	require.NoError(t, err)

	got, err := store.FindRecordID(context.Background(), "slug", "jane")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = store.FindRecordID(context.Background(), "slug", "john")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Non-string field values never participate in lookups.
	_, err = store.FindRecordID(context.Background(), "age", "30")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
