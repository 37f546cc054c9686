package tokens

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by a Backend that cannot be used in the current
// environment (no passphrase, no server). The Store moves on to the next one.
var ErrUnavailable = errors.New("credential backend unavailable")

// Pair is the access/refresh token pair. It is replaced wholesale, never
// mutated in place.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is set. An empty record read from a
// backend is treated the same as a missing one.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Backend is one durable location for the pair. Read returns (nil, nil) when
// nothing is stored.
type Backend interface {
	Name() string
	Read(ctx context.Context) (*Pair, error)
	Write(ctx context.Context, p Pair) error
	Erase(ctx context.Context) error
}
