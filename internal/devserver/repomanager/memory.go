package repomanager

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/devserver/refreshtokens"
	"github.com/dmitrijs2005/cinepass/internal/devserver/users"
)

type MemoryRepositoryManager struct {
	users  *users.MemoryRepository
	tokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		tokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.tokens }

func (m *MemoryRepositoryManager) Close() error { return nil }
