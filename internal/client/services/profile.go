package services

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
)

type ProfileService interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p Profile) error
	SaveKYC(ctx context.Context, k KYC) error
	SavePermissions(ctx context.Context, perms map[string]bool) error
}

type Profiles struct {
	api API
}

var _ ProfileService = (*Profiles)(nil)

func NewProfileService(client API) *Profiles {
	return &Profiles{api: client}
}

type profileData struct {
	User *Profile `json:"user"`
}

func (s *Profiles) Get(ctx context.Context) (*Profile, error) {
	env, err := s.api.Get(ctx, PathProfile)
	if err != nil {
		return nil, err
	}
	data, err := envelope.Unwrap[profileData](env)
	if err != nil {
		return nil, err
	}
	if data.User == nil {
		return &Profile{}, nil
	}
	return data.User, nil
}

func (s *Profiles) Save(ctx context.Context, p Profile) error {
	return s.put(ctx, PathProfile, p)
}

func (s *Profiles) SaveKYC(ctx context.Context, k KYC) error {
	return s.put(ctx, PathKYC, k)
}

func (s *Profiles) SavePermissions(ctx context.Context, perms map[string]bool) error {
	return s.put(ctx, PathPermissions, perms)
}

func (s *Profiles) put(ctx context.Context, path string, body any) error {
	env, err := s.api.Put(ctx, path, body)
	if err != nil {
		return err
	}
	return env.Check()
}
