package user

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/auth"
	"github.com/frahmantamala/hr-admin/internal/journal"
	"github.com/frahmantamala/hr-admin/internal/transport"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context, actor journal.Actor) ([]UserResponse, error)
	ListManagers(ctx context.Context) ([]UserResponse, error)
	ListAll(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, actor journal.Actor, id int64, dto UpdateUserDTO) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor journal.Actor, id int64) (*MessageResponse, error)
	ResetPassword(ctx context.Context, actor journal.Actor, id int64) (*ResetPasswordResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func callerActor(r *http.Request) (journal.Actor, error) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		return journal.Actor{}, errors.ErrUnauthenticated
	}
	return journal.Actor{ID: caller.ID, Name: caller.DisplayName}, nil
}

// ListUsers handles GET /utilisateurs
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := callerActor(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// ListManagers handles GET /utilisateurs/responsables
func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListManagers(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// ListAll handles GET /utilisateurs/all
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListAll(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// UpdateUser handles PUT /utilisateurs/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := callerActor(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /utilisateurs/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := callerActor(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	response, err := h.Service.DeleteUser(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// ResetPassword handles PUT /utilisateurs/{id}/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, err := callerActor(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	response, err := h.Service.ResetPassword(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, response)
}
