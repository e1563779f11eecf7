package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/hr-admin/internal/transport/rest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("HealthHandler", func() {
	It("reports every component and fails when one is down", func() {
		mr, err := miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		defer mr.Close()
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		handler := rest.NewHealthHandler(map[string]rest.Check{
			"redis":    rest.RedisCheck(client),
			"postgres": func(ctx context.Context) error { return errors.New("connection refused") },
		})

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

		var resp rest.HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["redis"].Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components["postgres"].Message).To(Equal("connection refused"))
	})

	It("is healthy with no failing checks", func() {
		w := httptest.NewRecorder()
		rest.NewHealthHandler(nil).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
