package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pah-access/internal/middleware"
	"pah-access/internal/model"
	"pah-access/internal/service"
)

// UserHandler serves the admin panel.
type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns the directory. ?reveal=a,b shows the passwords of a and b.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	tok, _ := middleware.SessionFromContext(r.Context())

	dir, err := h.service.List(r.Context(), tok, splitList(r.URL.Query().Get("reveal")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dir)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tok, _ := middleware.SessionFromContext(r.Context())
	entry, err := h.service.Create(r.Context(), tok, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, entry)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	username := chi.URLParam(r, "username")
	tok, _ := middleware.SessionFromContext(r.Context())
	if err := h.service.Update(r.Context(), tok, username, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": model.NormalizeUsername(username)})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	tok, _ := middleware.SessionFromContext(r.Context())
	if err := h.service.Delete(r.Context(), tok, username); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": model.NormalizeUsername(username)})
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
