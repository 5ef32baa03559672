package handler

import (
	"net/http"

	"pah-access/internal/service"
)

type StatusHandler struct {
	service *service.UserService
}

func NewStatusHandler(service *service.UserService) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Status reports store connectivity for the login screen.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Status(r.Context()))
}
