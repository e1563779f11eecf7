package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/hr-admin/api"
	"github.com/frahmantamala/hr-admin/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("is a valid OpenAPI 3 document", func() {
		doc, err := swagger.Load(context.Background(), api.Spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("HR Admin API"))
	})

	It("documents every public route", func() {
		doc, err := swagger.Load(context.Background(), api.Spec)
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{
			"/auth/login",
			"/auth/refresh",
			"/utilisateurs",
			"/utilisateurs/responsables",
			"/utilisateurs/all",
			"/utilisateurs/{id}",
			"/utilisateurs/{id}/reset-password",
			"/utilisateurs/{id}/journal",
			"/utilisateurs/{id}/journal-last-login",
			"/api/competences",
			"/api/competences/{id}",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("rejects a malformed document", func() {
		_, err := swagger.Load(context.Background(), []byte("openapi: 3.0.3\npaths: 12\n"))
		Expect(err).To(HaveOccurred())
	})

	It("serves the raw document", func() {
		w := httptest.NewRecorder()
		swagger.SpecHandler(api.Spec).ServeHTTP(w, httptest.NewRequest(http.MethodGet, swagger.SpecPath, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Bytes()).To(Equal(api.Spec))
	})
})
