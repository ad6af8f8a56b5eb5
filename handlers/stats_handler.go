package handlers

import (
	"net/http"

	"github.com/shahriakhansejan/core-bits-server/utils"
)

// GetHRStats serves the HR dashboard aggregation.
func (h *Handler) GetHRStats(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats.GetHRStats(r.Context(), ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// GetRequestSummary serves the employee's own pending/monthly counters.
func (h *Handler) GetRequestSummary(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Stats.GetEmployeeSummary(r.Context(), ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}
