package handler

import (
	"net/http"

	"pah-access/internal/middleware"
	"pah-access/internal/model"
	"pah-access/internal/service"
	"pah-access/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	st, ok := middleware.StorageFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("INTERNAL_ERROR", "session storage unavailable", "", http.StatusInternalServerError))
		return
	}

	tok, err := h.service.Login(r.Context(), st, payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tok)
}

// Logout always succeeds for the caller, with or without a live session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.StorageFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("INTERNAL_ERROR", "session storage unavailable", "", http.StatusInternalServerError))
		return
	}

	tok, _ := middleware.SessionFromContext(r.Context())
	if err := h.service.Logout(r.Context(), st, tok.Username); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LogoutResponse{LoggedOut: true})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, tok)
}
