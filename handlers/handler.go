package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/middleware"
	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

// Handler adapts the service surface to HTTP. It holds no state of its own;
// everything is delegated to the injected services.
type Handler struct {
	svc *service.Services
	log *zap.SugaredLogger
}

func New(svc *service.Services, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

// identity pulls the resolved caller out of the request context. The auth
// middleware guarantees it is present on protected routes.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (service.Identity, bool) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return service.Identity{}, false
	}
	return ident, true
}

// respondError maps domain error kinds onto HTTP statuses. Raw store errors
// never reach the response body.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var de *errs.DomainError
	if !errors.As(err, &de) {
		h.log.Errorw("unexpected error", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var status int
	switch de.Kind {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindForbidden:
		status = http.StatusForbidden
	case errs.KindUnauthorized:
		status = http.StatusUnauthorized
	case errs.KindInvalidArgument:
		status = http.StatusBadRequest
	case errs.KindInvalidTransition, errs.KindOutOfStock:
		status = http.StatusConflict
	case errs.KindInvalidAssetType:
		status = http.StatusUnprocessableEntity
	case errs.KindStoreUnavailable:
		h.log.Errorw("store unavailable", "error", err)
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	utils.RespondWithJSON(w, status, map[string]string{
		"code":  de.Kind,
		"error": de.Message,
	})
}
