package keystore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cinepass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInitDatabase_CreatesMetadataTable(t *testing.T) {
	db := openDB(t)

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('metadata') WHERE name = 'updated_at'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestSQLite_RoundTripWithUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(openDB(t), "@app:authTokens")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	p, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	_, ok, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := tokens.Pair{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, s.Write(ctx, want))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	at, ok, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fixed.Equal(at))
}

func TestSQLite_UnchangedWriteKeepsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(openDB(t), "k")
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Minute)

	s.now = func() time.Time { return first }
	require.NoError(t, s.Write(ctx, tokens.Pair{AccessToken: "a", RefreshToken: "r"}))

	s.now = func() time.Time { return later }
	require.NoError(t, s.Write(ctx, tokens.Pair{AccessToken: "a", RefreshToken: "r"}))
	at, _, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(at))

	require.NoError(t, s.Write(ctx, tokens.Pair{AccessToken: "b", RefreshToken: "r"}))
	at, _, err = s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, later.Equal(at))
}

func TestSQLite_EraseRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(openDB(t), "k")
	require.NoError(t, s.Write(ctx, tokens.Pair{AccessToken: "a"}))

	require.NoError(t, s.Erase(ctx))
	require.NoError(t, s.Erase(ctx))

	p, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	_, ok, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := NewSQLite(db, "k")
	require.NoError(t, db.Close())

	_, err := s.Read(ctx)
	require.Error(t, err)
	require.Error(t, s.Write(ctx, tokens.Pair{AccessToken: "a"}))
	require.Error(t, s.Erase(ctx))
}
