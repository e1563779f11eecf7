package journal_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/hr-admin/internal/journal"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Journal Handler", func() {
	var (
		mockRepo *MockRepository
		users    *MockUserLookup
		router   chi.Router
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository()
		users = &MockUserLookup{lastLogins: map[int64]*time.Time{1: nil}}
		service := journal.NewService(mockRepo, users, logger)
		handler := journal.NewHandler(transport.NewBaseHandler(logger), service)

		router = chi.NewRouter()
		router.Get("/utilisateurs/{id}/journal", handler.GetJournal)
		router.Get("/utilisateurs/{id}/journal-last-login", handler.GetJournalSinceLastLogin)

		_, err := service.Record(context.Background(), journal.Actor{ID: 1, Name: "Martin Claire"}, journal.ActionSuppression, "Suppression de l'utilisateur : Durand Paul")
		Expect(err).NotTo(HaveOccurred())
	})

	It("lists a user's journal", func() {
		req := httptest.NewRequest(http.MethodGet, "/utilisateurs/1/journal", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var entries []journal.Entry
		Expect(json.NewDecoder(w.Body).Decode(&entries)).To(Succeed())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Action).To(Equal(journal.ActionSuppression))
	})

	It("returns an empty array for a user without entries", func() {
		req := httptest.NewRequest(http.MethodGet, "/utilisateurs/99/journal", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("rejects a malformed id", func() {
		req := httptest.NewRequest(http.MethodGet, "/utilisateurs/abc/journal", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for the since-last-login view of an unknown user", func() {
		req := httptest.NewRequest(http.MethodGet, "/utilisateurs/99/journal-last-login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
