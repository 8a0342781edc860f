package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/daytally/internal/database"
	"github.com/jask/daytally/internal/ledger"
)

func TestBlobRepo(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "nested", "daytally.db")

	db, err := database.OpenMigrated(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// a second run is a no-op
	require.NoError(t, database.RunMigrations(dbPath))

	repo := NewBlobRepo(db)
	_, err = repo.Get(ctx, ledger.StoreBlob)
	require.ErrorIs(t, err, ledger.ErrBlobNotFound)

	require.NoError(t, repo.Put(ctx, ledger.NoteBlob, []byte("first")))
	require.NoError(t, repo.Put(ctx, ledger.NoteBlob, []byte("second")))
	got, err := repo.Get(ctx, ledger.NoteBlob)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	require.NoError(t, repo.Put(ctx, ledger.StoreBlob, nil))
	got, err = repo.Get(ctx, ledger.StoreBlob)
	require.NoError(t, err)
	require.Empty(t, got)

	b, err := repo.Find(ctx, ledger.NoteBlob)
	require.NoError(t, err)
	require.False(t, b.UpdatedAt.IsZero())
}

func TestStoreOnSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "daytally.db")
	db, err := database.OpenMigrated(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewBlobRepo(db)
	s := ledger.Load(ctx, repo, zerolog.Nop())
	s.SetItems(ctx, "2025-05-01", []ledger.ConsumptionItem{
		{ID: ledger.NewItemID(), Name: "noodles", Amount: 18, Category: ledger.DefaultCategory, Expression: "15+3"},
	})
	s.SetNote(ctx, "cook more")
	require.NoError(t, s.Err())

	reloaded := ledger.Load(ctx, repo, zerolog.Nop())
	require.Equal(t, s.Snapshot(), reloaded.Snapshot())
	require.Equal(t, "cook more", reloaded.Note())
}
