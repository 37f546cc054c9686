// Package refreshtokens stores the devserver's opaque refresh tokens. Tokens
// are single-use: Consume removes the row it returns.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

type Repository interface {
	// Create stores token for userID, valid for validity from now.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	// Find returns the row for token, or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Consume atomically deletes and returns the row for token, or
	// common.ErrorNotFound. Two concurrent calls never both succeed.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}
