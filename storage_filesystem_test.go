package weave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemDefinitionStore_SaveGetDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	def := &StoredDefinition{Name: "greet", Template: "Hello, ${0}!", ListMax: Unbounded}
	require.NoError(t, store.Save(ctx, def))

	got, err := store.Get(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello, ${0}!", got.Template)

	require.NoError(t, store.Delete(ctx, "greet"))
	_, err = store.Get(ctx, "greet")
	assert.Error(t, err)
}

func TestFilesystemDefinitionStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store1, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Save(ctx, &StoredDefinition{Name: "x", Template: "y"}))

	store2, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	got, err := store2.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "y", got.Template)
}

func TestFilesystemDefinitionStore_SaveReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredDefinition{Name: "x", Template: "first"}))
	require.NoError(t, store.Save(ctx, &StoredDefinition{Name: "x", Template: "second"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Template)
}

func TestFilesystemDefinitionStore_GetUnknownOnEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestFilesystemDefinitionStore_ListSortedByName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemDefinitionStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredDefinition{Name: "zebra"}))
	require.NoError(t, store.Save(ctx, &StoredDefinition{Name: "apple"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "apple", list[0].Name)
	assert.Equal(t, "zebra", list[1].Name)
}
