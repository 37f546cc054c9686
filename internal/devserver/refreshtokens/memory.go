package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]models.RefreshToken
	now  func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]models.RefreshToken), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.rows[token] = models.RefreshToken{UserID: userID, Token: token, Expires: now.Add(validity), CreatedAt: now}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *MemoryRepository) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.rows, token)
	return &rt, nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, token)
	return nil
}

func (r *MemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, rt := range r.rows {
		if rt.UserID == userID {
			delete(r.rows, token)
		}
	}
	return nil
}
