package keystore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/dbx"
)

// SQLite keeps the pair as plain JSON in the metadata table under key.
type SQLite struct {
	db  *sql.DB
	key string
	now func() time.Time
}

var _ tokens.Backend = (*SQLite)(nil)

func NewSQLite(db *sql.DB, key string) *SQLite {
	return &SQLite{db: db, key: key, now: time.Now}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Read(ctx context.Context) (*tokens.Pair, error) {
	e, err := metadata.NewSQLiteRepository(s.db).Get(ctx, s.key)
	if err != nil || e == nil {
		return nil, err
	}

	var p tokens.Pair
	if err := json.Unmarshal(e.Value, &p); err != nil {
		return nil, fmt.Errorf("decode metadata %q: %w", s.key, err)
	}
	return &p, nil
}

// Write stores the record. Rewriting an identical pair keeps its updated_at.
func (s *SQLite) Write(ctx context.Context, p tokens.Pair) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		cur, err := repo.Get(ctx, s.key)
		if err != nil {
			return err
		}
		if cur != nil && bytes.Equal(cur.Value, raw) {
			return nil
		}
		return repo.Put(ctx, s.key, raw, s.now())
	})
}

func (s *SQLite) Erase(ctx context.Context) error {
	_, err := metadata.NewSQLiteRepository(s.db).Delete(ctx, s.key)
	return err
}

// UpdatedAt reports when the record last changed. ok is false when there is
// no record.
func (s *SQLite) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	e, err := metadata.NewSQLiteRepository(s.db).Get(ctx, s.key)
	if err != nil || e == nil {
		return time.Time{}, false, err
	}
	return e.UpdatedAt, true, nil
}
