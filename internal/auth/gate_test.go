package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Authorize", func() {
	ginkgo.It("allows when the capability is granted", func() {
		gomega.Expect(Authorize([]string{PermVoir, PermEditer}, PermEditer)).To(gomega.Succeed())
	})

	ginkgo.It("allows anything when no capability is required", func() {
		gomega.Expect(Authorize(nil, "")).To(gomega.Succeed())
	})

	ginkgo.It("denies a missing capability", func() {
		err := Authorize([]string{PermVoir}, PermSupprimer)
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAuthorizationDenied))
	})
})

var _ = ginkgo.Describe("Gate", func() {
	var (
		logger *slog.Logger
		called bool
		router chi.Router
	)

	serve := func(user *User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/utilisateurs/7", nil)
		if user != nil {
			req = req.WithContext(ContextWithUser(req.Context(), user))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	mount := func(overrides map[string]string) {
		gate := NewGate(overrides, logger)
		router = chi.NewRouter()
		gate.Mount(router, []Route{{
			Name:       "update_user",
			Method:     http.MethodPut,
			Pattern:    "/utilisateurs/{id}",
			Capability: PermEditer,
			Handler: func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			},
		}})
	}

	ginkgo.BeforeEach(func() {
		called = false
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mount(nil)
	})

	ginkgo.It("runs the handler for a caller holding the capability", func() {
		w := serve(&User{ID: 1, Permissions: []string{PermEditer}})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(called).To(gomega.BeTrue())
	})

	ginkgo.It("answers 403 before the handler runs", func() {
		w := serve(&User{ID: 1, Permissions: []string{PermVoir}})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(called).To(gomega.BeFalse())

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body.Error.Code).To(gomega.Equal(string(apperrors.ErrCodeAuthorizationDenied)))
	})

	ginkgo.It("answers 401 without a caller", func() {
		w := serve(nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(called).To(gomega.BeFalse())
	})

	ginkgo.It("lets configuration remove a requirement", func() {
		mount(map[string]string{"update_user": NoCapability})
		w := serve(&User{ID: 1})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("lets configuration change a requirement", func() {
		mount(map[string]string{"update_user": "PERM_RH"})
		w := serve(&User{ID: 1, Permissions: []string{PermEditer}})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})
})
