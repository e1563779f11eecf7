package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler *Handler
		tokens  *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tokens = NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
		handler = NewHandler(transport.NewBaseHandler(logger), NewService(newMockRepository(), tokens, logger))
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("returns tokens", func() {
			body, _ := json.Marshal(LoginDTO{Username: "cmartin", Password: "correct_password"})
			w := httptest.NewRecorder()
			handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			var pair AuthTokens
			gomega.Expect(json.NewDecoder(w.Body).Decode(&pair)).To(gomega.Succeed())
			gomega.Expect(pair.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("answers 401 on bad credentials", func() {
			body, _ := json.Marshal(LoginDTO{Username: "cmartin", Password: "nope"})
			w := httptest.NewRecorder()
			handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(string(apperrors.ErrCodeInvalidCredentials)))
		})

		ginkgo.It("answers 400 on a malformed body", func() {
			w := httptest.NewRecorder()
			handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{")))
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RefreshToken", func() {
		ginkgo.It("answers 400 without a token", func() {
			w := httptest.NewRecorder()
			handler.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(`{}`)))
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			seen *User
			next http.Handler
		)

		ginkgo.BeforeEach(func() {
			seen = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = UserFromContext(r.Context())
				gomega.Expect(apperrors.UserIDFromContext(r.Context())).To(gomega.Equal(seen.ID))
				w.WriteHeader(http.StatusOK)
			})
		})

		ginkgo.It("puts the resolved caller on the context", func() {
			access, err := tokens.GenerateAccessToken(1, "cmartin")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/utilisateurs", nil)
			req.Header.Set("Authorization", "Bearer "+access)
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(seen).NotTo(gomega.BeNil())
			gomega.Expect(seen.Username).To(gomega.Equal("cmartin"))
		})

		ginkgo.It("answers 401 without a bearer token", func() {
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/utilisateurs", nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("answers 401 for a refresh token", func() {
			refresh, err := tokens.GenerateRefreshToken(1, "cmartin")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/utilisateurs", nil)
			req.Header.Set("Authorization", "Bearer "+refresh)
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
