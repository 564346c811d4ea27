package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/store"
	"github.com/procureflow/registry/internal/domain/entity"
	"github.com/procureflow/registry/migrations"
	"github.com/procureflow/registry/pkg/database"
)

func setupBlobStore(t *testing.T) (*BlobStore, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "procureflow.db")

	db, err := database.New(ctx, database.Config{Path: path, MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrator(db, zap.NewNop()).Run(ctx, migrations.FS)
	require.NoError(t, err)

	return NewBlobStore(db, zap.NewNop()), path
}

func TestBlobStore_GetMissing(t *testing.T) {
	s, _ := setupBlobStore(t)

	value, err := s.Get(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestBlobStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := setupBlobStore(t)

	require.NoError(t, s.Put(ctx, "a", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "a", []byte(`[1,2]`)))
	require.NoError(t, s.Put(ctx, "b", nil))

	value, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(value))

	value, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, value)
	assert.Empty(t, value)

	names, err := s.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestBlobStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := setupBlobStore(t)

	records := store.NewRecordStore(s, zap.NewNop())
	seeded, err := records.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	db, err := database.New(ctx, database.Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	reopened := store.NewRecordStore(NewBlobStore(db, zap.NewNop()), zap.NewNop())
	loaded := reopened.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Office Depot", loaded[0].SupplierName)
	assert.Equal(t, entity.CategoryOfficeSupplies, loaded[0].Category)
}
