// Package repomanager selects the devserver's storage: an in-process
// backend when no database DSN is configured, PostgreSQL otherwise.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/devserver/refreshtokens"
	"github.com/dmitrijs2005/cinepass/internal/devserver/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Close() error
}

// New returns a PostgreSQL manager for a non-empty dsn and a memory manager
// otherwise.
func New(dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgresRepositoryManager(dsn)
}
