package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

type createRequestPayload struct {
	AssetID string `json:"assetId"`
	Note    string `json:"note,omitempty"`
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var payload createRequestPayload
	if err := utils.ParseJSON(r, &payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	assetID, err := primitive.ObjectIDFromHex(payload.AssetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	req, err := h.svc.Requests.Create(r.Context(), ident, service.CreateRequestInput{
		AssetID: assetID,
		Note:    payload.Note,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, req)
}

// datePayload carries an optional YYYY-MM-DD date for approve/return;
// missing dates default to today.
type datePayload struct {
	Date string `json:"date,omitempty"`
}

func (p datePayload) resolve() (time.Time, error) {
	if p.Date == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", p.Date)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var payload datePayload
	_ = utils.ParseJSON(r, &payload)
	approveDate, err := payload.resolve()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	req, err := h.svc.Requests.Approve(r.Context(), ident, id, approveDate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.svc.Requests.Reject(r.Context(), ident, id); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ReturnRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var payload datePayload
	_ = utils.ParseJSON(r, &payload)
	returnDate, err := payload.resolve()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	req, err := h.svc.Requests.Return(r.Context(), ident, id, returnDate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

func (h *Handler) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.svc.Requests.Withdraw(r.Context(), ident, id); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func requestQuery(r *http.Request) service.RequestQuery {
	q := r.URL.Query()
	return service.RequestQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
}

// ListHRRequests is the HR queue, searchable by requester name.
func (h *Handler) ListHRRequests(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.Requests.ListForHR(r.Context(), ident, requestQuery(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, requests)
}

// ListMyRequests is the employee view, searchable by asset name.
func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.Requests.ListForEmployee(r.Context(), ident, requestQuery(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, requests)
}
