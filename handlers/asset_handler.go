package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

func assetQuery(r *http.Request) service.AssetQuery {
	q := r.URL.Query()
	return service.AssetQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Sort:   q.Get("sort"),
	}
}

func objectID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// ListAssets returns the calling HR's inventory with search/status/type
// filters and optional quantity sort.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	assets, err := h.svc.Assets.ListForHR(r.Context(), ident, assetQuery(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

// ListTeamAssets is the employee view: assets under the caller's affiliated
// HR, same filter set.
func (h *Handler) ListTeamAssets(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	assets, err := h.svc.Assets.ListForEmployee(r.Context(), ident, assetQuery(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.svc.Assets.Get(r.Context(), ident, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var in service.AssetInput
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	asset, err := h.svc.Assets.Create(r.Context(), ident, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	var in service.AssetInput
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	asset, err := h.svc.Assets.Update(r.Context(), ident, id, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := objectID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	if err := h.svc.Assets.Delete(r.Context(), ident, id); err != nil {
		h.respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
