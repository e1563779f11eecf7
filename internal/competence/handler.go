package competence

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-admin/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*Competence, error)
	Create(ctx context.Context, dto CompetenceDTO) (*Competence, error)
	Update(ctx context.Context, id int64, dto CompetenceDTO) (*Competence, error)
	Delete(ctx context.Context, id int64) error
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

// GetCompetences handles GET /api/competences
func (h *Handler) GetCompetences(w http.ResponseWriter, r *http.Request) {
	competences, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, competences)
}

// CreateCompetence handles POST /api/competences
func (h *Handler) CreateCompetence(w http.ResponseWriter, r *http.Request) {
	var dto CompetenceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, created)
}

// UpdateCompetence handles PUT /api/competences/{id}
func (h *Handler) UpdateCompetence(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CompetenceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteCompetence handles DELETE /api/competences/{id}
func (h *Handler) DeleteCompetence(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
