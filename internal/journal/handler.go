package journal

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-admin/internal/transport"
)

type ServiceAPI interface {
	EntriesForUser(ctx context.Context, userID int64) ([]*Entry, error)
	EntriesSinceLastLogin(ctx context.Context, userID int64) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetJournal handles GET /utilisateurs/{id}/journal
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	entries, err := h.Service.EntriesForUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// GetJournalSinceLastLogin handles GET /utilisateurs/{id}/journal-last-login
func (h *Handler) GetJournalSinceLastLogin(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	entries, err := h.Service.EntriesSinceLastLogin(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
