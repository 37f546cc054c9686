// Package service contains the devserver's business logic: OTP sign-in,
// JWT access tokens with rotating refresh tokens, profile storage and a
// fixed movie catalogue.
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/devserver/auth"
	"github.com/dmitrijs2005/cinepass/internal/devserver/config"
	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
	"github.com/dmitrijs2005/cinepass/internal/devserver/repomanager"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

const otpValidity = 5 * time.Minute

var ErrEmptyIdentifier = errors.New("identifier is required")

// TokenPair is the pair handed to clients on sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type pendingOTP struct {
	code    string
	expires time.Time
}

// AuthService issues OTPs and token pairs.
type AuthService struct {
	repos                        repomanager.RepositoryManager
	log                          logging.Logger
	metrics                      *metrics.Server
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	fixedOTP                     string

	mu   sync.Mutex
	otps map[string]pendingOTP
	now  func() time.Time
}

func NewAuthService(repos repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, m *metrics.Server) *AuthService {
	return &AuthService{
		repos:                        repos,
		log:                          log,
		metrics:                      m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		fixedOTP:                     cfg.FixedOTP,
		otps:                         make(map[string]pendingOTP),
		now:                          time.Now,
	}
}

// RequestOTP creates the user on first contact and "sends" a one-time code.
// Delivery is a log line.
func (s *AuthService) RequestOTP(ctx context.Context, identifier string) error {
	identifier, err := cleanIdentifier(identifier)
	if err != nil {
		return err
	}
	if _, err := s.repos.Users().FindOrCreate(ctx, identifier); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return s.issueOTP(ctx, identifier)
}

// VerifyOTP consumes the code and signs the user in.
func (s *AuthService) VerifyOTP(ctx context.Context, identifier, otp string) (*models.User, *TokenPair, error) {
	identifier, err := cleanIdentifier(identifier)
	if err != nil {
		return nil, nil, err
	}
	if !s.checkOTP(identifier, otp) {
		return nil, nil, common.ErrInvalidOTP
	}

	users := s.repos.Users()
	if err := users.MarkVerified(ctx, identifier); err != nil {
		return nil, nil, fmt.Errorf("error verifying user: %w", err)
	}
	u, err := users.FindOrCreate(ctx, identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	pair, err := s.issue(ctx, u.ID, "otp")
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// RequestIdentifierOTP sends a code for an identifier that is not a sign-in
// credential yet. No user is created.
func (s *AuthService) RequestIdentifierOTP(ctx context.Context, identifier string) error {
	identifier, err := cleanIdentifier(identifier)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, identifier)
}

func (s *AuthService) VerifyIdentifier(ctx context.Context, identifier, otp string) error {
	identifier, err := cleanIdentifier(identifier)
	if err != nil {
		return err
	}
	if !s.checkOTP(identifier, otp) {
		return common.ErrInvalidOTP
	}
	return nil
}

// Refresh rotates refreshToken: the presented token is consumed and a new
// pair is issued. A token can be redeemed once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	token, err := s.repos.RefreshTokens().Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	if _, err := s.repos.Users().Get(ctx, token.UserID); err != nil {
		return nil, common.ErrInvalidToken
	}

	return s.issue(ctx, token.UserID, "refresh")
}

// Logout revokes every refresh token of userID.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.repos.RefreshTokens().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	s.log.Info(ctx, "user signed out", "user_id", userID)
	return nil
}

// Authenticate validates an access token and returns its user id.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

func (s *AuthService) issue(ctx context.Context, userID, grant string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh := uuid.NewString()
	if err := s.repos.RefreshTokens().Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		s.log.Error(ctx, "storing refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}
	s.metrics.TokensIssued(grant)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issueOTP(ctx context.Context, identifier string) error {
	code := s.fixedOTP
	if code == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
		if err != nil {
			return common.ErrorInternal
		}
		code = fmt.Sprintf("%06d", n.Int64())
	}

	s.mu.Lock()
	s.otps[identifier] = pendingOTP{code: code, expires: s.now().Add(otpValidity)}
	s.mu.Unlock()

	s.log.Info(ctx, "otp issued", "identifier", identifier, "otp", code)
	return nil
}

func (s *AuthService) checkOTP(identifier, otp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.otps[identifier]
	if !ok || s.now().After(p.expires) {
		delete(s.otps, identifier)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(strings.TrimSpace(otp))) != 1 {
		return false
	}
	delete(s.otps, identifier)
	return true
}

func cleanIdentifier(identifier string) (string, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return "", ErrEmptyIdentifier
	}
	return identifier, nil
}
