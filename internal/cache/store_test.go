package cache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/hxtype/internal/analyzer"
	"github.com/funvibe/hxtype/internal/typesystem"
)

func TestStore_PutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "signatures.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	src := "(a:Int, ?b:String) -> Void"
	ctx := analyzer.Analyze(src, nil, nil)
	require.False(t, ctx.HasErrors())

	entry := NewEntry(src, nil, ctx.Type)
	assert.Equal(t, "(a:Int, ?b:String) -> Void", entry.Rendered)
	assert.Equal(t, "(Int, ?String) -> Void", entry.Plain)
	assert.Equal(t, 1, entry.RequiredArgs)

	_, ok, err := store.Get(entry.Key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(entry))
	got, ok, err := store.Get(entry.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Plain, got.Plain)
	assert.Equal(t, entry.Rendered, got.Rendered)
	assert.Equal(t, src, got.Source)
	assert.Equal(t, 1, got.RequiredArgs)
	assert.Equal(t, store.Session(), got.Session)
	assert.False(t, got.CreatedAt.IsZero())

	// Overwrite keeps a single row.
	require.NoError(t, store.Put(entry))
	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, path, store.Path())
}

func TestStore_SessionPerOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.db")

	first, err := Open(path)
	require.NoError(t, err)
	entry := NewEntry("Int", nil, typesystem.NewResultHolder(typesystem.NewClassReference("Int", nil, nil, nil)))
	require.NoError(t, first.Put(entry))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, first.Session(), second.Session())

	got, ok, err := second.Get(entry.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Session(), got.Session, "entry keeps the session that wrote it")
	assert.Equal(t, 0, got.RequiredArgs)
}

func TestKeyDependsOnSpecialization(t *testing.T) {
	intSpec := typesystem.EmptySpecialization().With("T",
		typesystem.NewResultHolder(typesystem.NewClassReference("Int", nil, nil, nil)))

	assert.Equal(t, Key("T -> Void", nil), Key("T -> Void", typesystem.EmptySpecialization()))
	assert.NotEqual(t, Key("T -> Void", nil), Key("T -> Void", intSpec))
	assert.NotEqual(t, Key("T -> Void", nil), Key("T -> Int", nil))
	assert.Len(t, Key("Int", nil), 64)
}

func TestOpenRejectsBadPaths(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)

	dir := t.TempDir()
	_, err = Open(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestEnsureSchemaRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	require.NoError(t, err)

	err = EnsureSchema(db)
	assert.ErrorContains(t, err, "newer than supported")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
