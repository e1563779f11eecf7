package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleError writes an AppError as the standard error envelope.
func (h *BaseHandler) HandleError(w http.ResponseWriter, appErr *errors.AppError) {
	h.HandleServiceError(w, appErr)
}

// HandleServiceError maps any service error to a status code and a safe body.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	status, body := errors.ToHTTPResponse(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "error", err)
	} else {
		h.Logger.Warn("http error", "status", status, "code", body.Error.Code, "message", body.Error.GetDetailedMessage())
	}
	h.WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.ErrInvalidRequestBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.ErrInvalidRequestBody.WithCause(err)
	}
	return nil
}

// ParseIDParam reads a positive int64 URL parameter.
func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidID
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
