package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock Repository for testing
type mockRepository struct {
	hashes        map[string]string // username -> password hash
	userIDs       map[string]int64  // username -> user id
	usersByID     map[int64]*User
	lastLogins    map[int64]time.Time
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockRepository{
		hashes: map[string]string{
			"cmartin": string(hashedPassword),
			"pdurand": string(hashedPassword),
		},
		userIDs: map[string]int64{
			"cmartin": 1,
			"pdurand": 2,
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Username: "cmartin", DisplayName: "Martin Claire", Role: "ADMIN", Permissions: []string{PermVoir, PermEditer, PermSupprimer}},
			2: {ID: 2, Username: "pdurand", DisplayName: "Durand Paul", Role: "RESPONSABLE"},
		},
		lastLogins: map[int64]time.Time{},
	}
}

func (m *mockRepository) GetCredentials(ctx context.Context, username string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	hash, ok := m.hashes[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &Credentials{UserID: m.userIDs[username], PasswordHash: hash}, nil
}

func (m *mockRepository) GetUserWithPermissions(ctx context.Context, userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	user, ok := m.usersByID[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *mockRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.lastLogins[userID] = at
	return nil
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		repo    *mockRepository
		tokens  *JWTTokenGenerator
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		tokens = NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(repo, tokens, logger)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("issues a token pair for valid credentials", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(pair.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(pair.RefreshToken).NotTo(gomega.BeEmpty())
			gomega.Expect(pair.AccessToken).NotTo(gomega.Equal(pair.RefreshToken))
		})

		ginkgo.It("stamps the last login", func() {
			fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
			service.now = func() time.Time { return fixed }

			_, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.lastLogins[1]).To(gomega.Equal(fixed))
		})

		ginkgo.It("rejects a wrong password without stamping the login", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "wrong"})
			gomega.Expect(errors.Is(err, apperrors.ErrInvalidCredentials)).To(gomega.BeTrue())
			gomega.Expect(repo.lastLogins).To(gomega.BeEmpty())
		})

		ginkgo.It("answers an unknown username like a wrong password", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Username: "ghost", Password: "correct_password"})
			gomega.Expect(errors.Is(err, apperrors.ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("validates required fields", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin"})
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
		})

		ginkgo.It("wraps repository failures", func() {
			repo.setError(errors.New("database error"))
			_, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "correct_password"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("database error"))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("exchanges a refresh token for a new pair", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(ctx, pair.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("refuses an access token in place of a refresh token", func() {
			pair, err := service.Authenticate(ctx, LoginDTO{Username: "cmartin", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, pair.AccessToken)
			gomega.Expect(errors.Is(err, apperrors.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("refuses a token of a deleted user", func() {
			refresh, err := tokens.GenerateRefreshToken(99, "ghost")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, refresh)
			gomega.Expect(errors.Is(err, apperrors.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ResolveIdentity", func() {
		ginkgo.It("returns the caller with permissions", func() {
			access, err := tokens.GenerateAccessToken(1, "cmartin")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			user, err := service.ResolveIdentity(ctx, access)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.DisplayName).To(gomega.Equal("Martin Claire"))
			gomega.Expect(user.HasPermission(PermEditer)).To(gomega.BeTrue())
		})

		ginkgo.It("returns unauthenticated once the user is gone", func() {
			access, err := tokens.GenerateAccessToken(99, "ghost")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ResolveIdentity(ctx, access)
			gomega.Expect(errors.Is(err, apperrors.ErrUnauthenticated)).To(gomega.BeTrue())
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokens *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokens = NewJWTTokenGenerator("access-secret", "refresh-secret", time.Minute, time.Hour)
	})

	ginkgo.It("round-trips the user id and username", func() {
		access, err := tokens.GenerateAccessToken(7, "cmartin")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		claims, err := tokens.ValidateAccessToken(access)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(7)))
		gomega.Expect(claims.Username).To(gomega.Equal("cmartin"))
		gomega.Expect(claims.Subject).To(gomega.Equal("7"))
	})

	ginkgo.It("checks each token type against its own secret", func() {
		refresh, err := tokens.GenerateRefreshToken(7, "cmartin")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = tokens.ValidateAccessToken(refresh)
		gomega.Expect(errors.Is(err, apperrors.ErrInvalidToken)).To(gomega.BeTrue())

		_, err = tokens.ValidateRefreshToken(refresh)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.It("reports expired tokens", func() {
		expired := NewJWTTokenGenerator("access-secret", "refresh-secret", time.Minute, time.Hour)
		expired.AccessTokenTTL = -time.Minute

		access, err := expired.GenerateAccessToken(7, "cmartin")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = tokens.ValidateAccessToken(access)
		gomega.Expect(errors.Is(err, apperrors.ErrTokenExpired)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects garbage", func() {
		_, err := tokens.ValidateAccessToken("not-a-jwt")
		gomega.Expect(errors.Is(err, apperrors.ErrInvalidToken)).To(gomega.BeTrue())
	})
})
