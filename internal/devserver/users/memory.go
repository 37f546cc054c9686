package users

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

const statusActive = "active"

type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.User
	index map[string]string // normalized identifier -> user id
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.User), index: make(map[string]string)}
}

func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func isEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

func (r *MemoryRepository) FindOrCreate(_ context.Context, identifier string) (*models.User, error) {
	key := normalize(identifier)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.index[key]; ok {
		return clone(r.byID[id]), nil
	}

	u := &models.User{ID: uuid.NewString(), Status: statusActive}
	if isEmail(key) {
		u.Email = key
		u.Profile.Email = key
	} else {
		u.PhoneNumber = key
		u.Profile.PhoneNumber = key
	}
	r.byID[u.ID] = u
	r.index[key] = u.ID
	return clone(u), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) MarkVerified(_ context.Context, identifier string) error {
	key := normalize(identifier)

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.index[key]
	if !ok {
		return common.ErrorNotFound
	}
	if isEmail(key) {
		r.byID[id].IsEmailVerified = true
	} else {
		r.byID[id].IsPhoneVerified = true
	}
	return nil
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, id string, p models.Profile) error {
	return r.update(id, func(u *models.User) {
		u.Profile = p
		u.FirstName = p.FirstName
	})
}

func (r *MemoryRepository) SaveKYC(_ context.Context, id string, k models.KYC) error {
	return r.update(id, func(u *models.User) { u.KYC = &k })
}

func (r *MemoryRepository) SavePermissions(_ context.Context, id string, perms map[string]bool) error {
	return r.update(id, func(u *models.User) {
		if u.Permissions == nil {
			u.Permissions = make(map[string]bool, len(perms))
		}
		maps.Copy(u.Permissions, perms)
	})
}

func (r *MemoryRepository) update(id string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func clone(u *models.User) *models.User {
	cp := *u
	cp.Permissions = maps.Clone(u.Permissions)
	if u.KYC != nil {
		k := *u.KYC
		cp.KYC = &k
	}
	return &cp
}
