package handlers

import (
	"net/http"

	"github.com/hashibank/hashi-bank-be/internal/services"
)

// AuthHandler handles the shared PIN gate.
type AuthHandler struct {
	service services.PinServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.PinServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// PinPayload defines the structure for PIN verification requests.
type PinPayload struct {
	Pin string `json:"pin"`
}

// VerifyPin checks the submitted PIN, storing it if none is set yet.
func (h *AuthHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var payload PinPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, "PIN verification", err)
		return
	}

	res, err := h.service.VerifyPin(r.Context(), payload.Pin)
	if err != nil {
		writeError(w, r, "PIN verification", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": res.Message,
	})
}
