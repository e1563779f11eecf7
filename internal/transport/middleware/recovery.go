package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/pkg/logger"
)

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.From(r.Context()).Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"url", r.URL.String(),
				"stack", string(debug.Stack()))

			status, body := apperrors.ToHTTPResponse(apperrors.NewInternalError("Internal server error", fmt.Errorf("panic: %v", rec)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()

		next.ServeHTTP(w, r)
	})
}
