package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/connector-api/internal/api/metrics"
	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
	"github.com/devconnector/connector-api/internal/pkg/token"
	"github.com/devconnector/connector-api/internal/pkg/validation"
)

// AuthService implements registration, login and token authentication.
type AuthService struct {
	users   ports.UserRepository
	tokens  *token.Manager
	revoked ports.RevocationStore
	cost    int
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens *token.Manager,
	revoked ports.RevocationStore,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, revoked: revoked, cost: bcryptCost, log: log}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", "exists").Inc()
		return "", domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Avatar:       domain.GravatarURL(in.Email),
		Date:         time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "exists").Inc()
		}
		return "", err
	}

	tok, err := s.issue(user.ID)
	if err != nil {
		return "", err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return tok, nil
}

// Login checks credentials and returns a fresh token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", domain.ErrInvalidCredentials
	}

	tok, err := s.issue(user.ID)
	if err != nil {
		return "", err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return tok, nil
}

// Authenticate verifies a presented token and resolves the caller.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (domain.Identity, error) {
	if raw == "" {
		metrics.TokensRejectedTotal.WithLabelValues("missing").Inc()
		return domain.Identity{}, domain.ErrNoToken
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		metrics.TokensRejectedTotal.WithLabelValues("invalid").Inc()
		return domain.Identity{}, domain.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Identity{}, err
	}
	if revoked {
		metrics.TokensRejectedTotal.WithLabelValues("revoked").Inc()
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{
		UserID:    claims.User.ID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CurrentUser loads the account behind an identity.
func (s *AuthService) CurrentUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, id.UserID)
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, id domain.Identity) error {
	if err := s.revoked.Revoke(ctx, id.TokenID, time.Until(id.ExpiresAt)); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.UserID).Msg("token revoked")
	return nil
}

func (s *AuthService) issue(userID string) (string, error) {
	tok, err := s.tokens.Issue(userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to sign token")
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}
