package handlers

import (
	"net/http"

	"github.com/hashibank/hashi-bank-be/internal/services"
)

// UserHandler handles HTTP requests for the user list.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetAll returns every user sorted by name.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, r, "Users retrieval", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// Init seeds the configured users that do not exist yet.
func (h *UserHandler) Init(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.InitUsers(r.Context())
	if err != nil {
		writeError(w, r, "User initialization", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Users initialized successfully",
		"users":   names,
	})
}
