package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	// GetCredentials returns errors.ErrUserNotFound for an unknown username.
	GetCredentials(ctx context.Context, username string) (*Credentials, error)
	GetUserWithPermissions(ctx context.Context, userID int64) (*User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ResolveIdentity(ctx context.Context, accessToken string) (*User, error)
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	now            func() time.Time
	logger         *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		now:            time.Now,
		logger:         logger,
	}
}

// Authenticate verifies the password, stamps last_login and issues a token pair.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.GetCredentials(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "login rejected: unknown username", "username", dto.Username)
			return AuthTokens{}, apperrors.ErrInvalidCredentials
		}
		return AuthTokens{}, fmt.Errorf("load credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.WarnContext(ctx, "login rejected: wrong password", "user_id", creds.UserID)
		return AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, creds.UserID, s.now().UTC()); err != nil {
		return AuthTokens{}, fmt.Errorf("update last login: %w", err)
	}

	tokens, err := s.issue(creds.UserID, dto.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", creds.UserID)
	return tokens, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetUserWithPermissions(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return AuthTokens{}, apperrors.ErrInvalidToken
		}
		return AuthTokens{}, fmt.Errorf("load user: %w", err)
	}

	return s.issue(user.ID, user.Username)
}

// ResolveIdentity maps an access token to the current user record.
// A token for a deleted user is rejected.
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserWithPermissions(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

func (s *Service) issue(userID int64, username string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, username)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, username)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
