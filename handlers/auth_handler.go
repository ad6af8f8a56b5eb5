package handlers

import (
	"net/http"

	"github.com/shahriakhansejan/core-bits-server/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ValidateToken lets clients check a stored token before rendering role
// specific UI.
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"email": ident.Email,
		"name":  ident.Name,
		"role":  ident.Role,
	})
}
