package competence_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/hr-admin/internal/competence"
	competencePostgres "github.com/frahmantamala/hr-admin/internal/competence/postgres"
	competenceDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/competence"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Competence Handler Integration", func() {
	var router chi.Router

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&competenceDatamodel.Competence{})).To(Succeed())

		service := competence.NewService(competencePostgres.NewCompetenceRepository(db), slogger)
		handler := competence.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/api/competences", handler.GetCompetences)
		router.Post("/api/competences", handler.CreateCompetence)
		router.Put("/api/competences/{id}", handler.UpdateCompetence)
		router.Delete("/api/competences/{id}", handler.DeleteCompetence)
	})

	It("should create and list competences", func() {
		w := send(http.MethodPost, "/api/competences", `{"nom":"Go","description":"Services"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var created competence.Competence
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))

		w = send(http.MethodGet, "/api/competences", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var all []competence.Competence
		Expect(json.NewDecoder(w.Body).Decode(&all)).To(Succeed())
		Expect(all).To(HaveLen(1))
		Expect(all[0].Nom).To(Equal("Go"))
	})

	It("should answer 409 on a duplicate name", func() {
		Expect(send(http.MethodPost, "/api/competences", `{"nom":"Go"}`).Code).To(Equal(http.StatusOK))
		Expect(send(http.MethodPost, "/api/competences", `{"nom":"Go"}`).Code).To(Equal(http.StatusConflict))
	})

	It("should answer 400 on invalid input", func() {
		Expect(send(http.MethodPost, "/api/competences", `{"nom":""}`).Code).To(Equal(http.StatusBadRequest))
		Expect(send(http.MethodPost, "/api/competences", `not json`).Code).To(Equal(http.StatusBadRequest))
	})

	It("should update and delete", func() {
		w := send(http.MethodPost, "/api/competences", `{"nom":"Go"}`)
		var created competence.Competence
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		path := "/api/competences/" + strconv.FormatInt(created.ID, 10)

		w = send(http.MethodPut, path, `{"nom":"Golang","description":"Services"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = send(http.MethodDelete, path, "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = send(http.MethodDelete, path, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 404 when updating an unknown competence", func() {
		Expect(send(http.MethodPut, "/api/competences/99", `{"nom":"Go"}`).Code).To(Equal(http.StatusNotFound))
	})
})

