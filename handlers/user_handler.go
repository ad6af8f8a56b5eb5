package handlers

import (
	"net/http"

	"github.com/shahriakhansejan/core-bits-server/utils"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Users.Me(r.Context(), ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GetHRInfo returns the company record for the caller's affiliation.
func (h *Handler) GetHRInfo(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	info, err := h.svc.Users.HRInfo(r.Context(), ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, info)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	role := r.URL.Query().Get("role")
	users, err := h.svc.Users.ListByRole(r.Context(), ident, role)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) ListTeam(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	team, err := h.svc.Users.Team(r.Context(), ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, team)
}

type assignRolePayload struct {
	Role string `json:"role"`
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var payload assignRolePayload
	if err := utils.ParseJSON(r, &payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.svc.Users.AssignRole(r.Context(), ident, id, payload.Role); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type packagePayload struct {
	Package string `json:"package"`
}

func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var payload packagePayload
	if err := utils.ParseJSON(r, &payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.svc.Users.UpdatePackage(r.Context(), ident, payload.Package); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
