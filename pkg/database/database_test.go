package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), Config{
		Path:         filepath.Join(t.TempDir(), "data", "test.db"),
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoadMigrations_SortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "first", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestLoadMigrations_RejectsBadNames(t *testing.T) {
	_, err := LoadMigrations(fstest.MapFS{"init.sql": {Data: []byte("")}})
	assert.Error(t, err)

	_, err = LoadMigrations(fstest.MapFS{
		"001_a.sql": {Data: []byte("")},
		"001_b.sql": {Data: []byte("")},
	})
	assert.Error(t, err)
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_items.sql": {Data: []byte("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT);")},
	}

	m := NewMigrator(db, zap.NewNop())
	n, err := m.Run(ctx, fsys)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = m.Run(ctx, fsys)
	require.NoError(t, err)
	assert.Zero(t, n)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.True(t, applied[1])

	_, err = db.ExecContext(ctx, "INSERT INTO items (name) VALUES ('x')")
	assert.NoError(t, err)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	m := NewMigrator(db, zap.NewNop())
	_, err := m.Run(ctx, fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE oops (")}})
	require.Error(t, err)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.False(t, applied[1])
}
