package service

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
	"github.com/dmitrijs2005/cinepass/internal/devserver/repomanager"
)

type ProfileService struct {
	repos repomanager.RepositoryManager
}

func NewProfileService(repos repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{repos: repos}
}

// Get returns the stored profile with the sign-in identifiers filled in.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.repos.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Profile
	if p.Email == "" {
		p.Email = u.Email
	}
	if p.PhoneNumber == "" {
		p.PhoneNumber = u.PhoneNumber
	}
	return &p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, p models.Profile) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	return s.repos.Users().UpdateProfile(ctx, userID, p)
}

func (s *ProfileService) SaveKYC(ctx context.Context, userID string, k models.KYC) error {
	return s.repos.Users().SaveKYC(ctx, userID, k)
}

func (s *ProfileService) SavePermissions(ctx context.Context, userID string, perms map[string]bool) error {
	return s.repos.Users().SavePermissions(ctx, userID, perms)
}
