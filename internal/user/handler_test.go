package user_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/auth"
	userDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-admin/internal/journal"
	journalPostgres "github.com/frahmantamala/hr-admin/internal/journal/postgres"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/frahmantamala/hr-admin/internal/user"
	userPostgres "github.com/frahmantamala/hr-admin/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		caller *auth.User
		target *userDatamodel.User
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var payload []byte
		if body != nil {
			payload, _ = json.Marshal(body)
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(payload))
		req = req.WithContext(auth.ContextWithUser(req.Context(), caller))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db = newTestDB()

		actorRow := seedUser(db, "Bernard", "Luc", "lbernard", user.RoleRH, "PERM_VOIR")
		target = seedUser(db, "Durand", "Paul", "pdurand", user.RoleResponsable)
		caller = &auth.User{ID: actorRow.ID, Username: "lbernard", DisplayName: "Bernard Luc", Permissions: []string{"PERM_VOIR"}}

		repo := userPostgres.NewUserRepository(db)
		journalSvc := journal.NewService(journalPostgres.NewJournalRepository(db), repo, slogger)
		service := user.NewService(repo, userPostgres.NewTxRunner(db), journalSvc,
			user.NewBcryptCredentialService(12, bcrypt.MinCost), slogger)
		handler := user.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		auth.NewGate(nil, slogger).Mount(router, []auth.Route{
			{Name: "list_users", Method: http.MethodGet, Pattern: "/utilisateurs", Capability: auth.PermVoir, Handler: handler.ListUsers},
			{Name: "list_managers", Method: http.MethodGet, Pattern: "/utilisateurs/responsables", Handler: handler.ListManagers},
			{Name: "update_user", Method: http.MethodPut, Pattern: "/utilisateurs/{id}", Capability: auth.PermEditer, Handler: handler.UpdateUser},
			{Name: "delete_user", Method: http.MethodDelete, Pattern: "/utilisateurs/{id}", Capability: auth.PermSupprimer, Handler: handler.DeleteUser},
			{Name: "reset_password", Method: http.MethodPut, Pattern: "/utilisateurs/{id}/reset-password", Handler: handler.ResetPassword},
		})
	})

	It("lists users for a caller with PERM_VOIR", func() {
		w := do(http.MethodGet, "/utilisateurs", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var users []user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&users)).To(Succeed())
		Expect(users).To(HaveLen(2))
	})

	It("denies an update without PERM_EDITER and leaves the record unchanged", func() {
		w := do(http.MethodPut, "/utilisateurs/"+itoa(target.ID), map[string]string{"nom": "Dupont"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring(string(apperrors.ErrCodeAuthorizationDenied)))

		var stored userDatamodel.User
		Expect(db.First(&stored, target.ID).Error).To(Succeed())
		Expect(stored.Nom).To(Equal("Durand"))

		var entries int64
		Expect(db.Table("journal_actions").Count(&entries).Error).To(Succeed())
		Expect(entries).To(BeZero())
	})

	It("updates once the caller holds PERM_EDITER", func() {
		caller.Permissions = append(caller.Permissions, auth.PermEditer)

		w := do(http.MethodPut, "/utilisateurs/"+itoa(target.ID), map[string]string{"nom": "Dupont"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Nom).To(Equal("Dupont"))
		Expect(updated.Prenom).To(Equal("Paul"))
	})

	It("denies a delete without PERM_SUPPRIMER", func() {
		w := do(http.MethodDelete, "/utilisateurs/"+itoa(target.ID), nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 404 when deleting an unknown user", func() {
		caller.Permissions = append(caller.Permissions, auth.PermSupprimer)
		w := do(http.MethodDelete, "/utilisateurs/999", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring(string(apperrors.ErrCodeUserNotFound)))
	})

	It("answers 400 for a malformed id", func() {
		caller.Permissions = append(caller.Permissions, auth.PermSupprimer)
		w := do(http.MethodDelete, "/utilisateurs/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("resets a password and returns the new one", func() {
		w := do(http.MethodPut, "/utilisateurs/"+itoa(target.ID)+"/reset-password", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var response map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response["message"]).To(Equal("Mot de passe réinitialisé avec succès"))
		Expect(response["newPassword"]).NotTo(BeEmpty())
	})

	It("serves the managers list without a capability", func() {
		caller.Permissions = nil
		w := do(http.MethodGet, "/utilisateurs/responsables", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
