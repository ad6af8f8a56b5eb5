package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/config"
	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

// Identity is the caller as resolved by the access policy gate (the auth
// middleware). Services trust it and never re-verify; every operation takes
// it as an explicit parameter and checks the required capability up front.
type Identity struct {
	Email   string
	Name    string
	Role    string
	HREmail string // HR affiliation; set for employees only
}

// Scope returns the HR email that partitions visibility for this caller:
// an HR sees records they own, an employee sees records under their
// affiliated HR.
func (id Identity) Scope() string {
	if id.Role == models.RoleHR {
		return id.Email
	}
	return id.HREmail
}

func requireRole(ident Identity, role string) error {
	if ident.Role != role {
		return errs.NewForbidden(fmt.Sprintf("%s access required", role))
	}
	return nil
}

// Request lifecycle event names broadcast to dashboard clients.
const (
	EventRequestCreated   = "REQUEST_CREATED"
	EventRequestApproved  = "REQUEST_APPROVED"
	EventRequestRejected  = "REQUEST_REJECTED"
	EventRequestReturned  = "REQUEST_RETURNED"
	EventRequestWithdrawn = "REQUEST_WITHDRAWN"
)

// EventPublisher fans lifecycle events out to connected clients in one HR
// scope. Implementations must not block; a nil publisher disables events.
type EventPublisher interface {
	Publish(scope string, event string, payload interface{})
}

// Services bundles the transport-independent core surface.
type Services struct {
	Auth     *AuthService
	Users    *UserService
	Assets   *AssetService
	Requests *RequestService
	Stats    *StatsService
}

func New(st *store.Stores, cfg *config.Config, events EventPublisher, log *zap.SugaredLogger) *Services {
	return &Services{
		Auth:     NewAuthService(st.Users, cfg.JWTSecret, cfg.JWTExpiration, log),
		Users:    NewUserService(st.Users, st.HRInfo, log),
		Assets:   NewAssetService(st.Assets, st.Requests, log),
		Requests: NewRequestService(st.Requests, st.Assets, events, log),
		Stats:    NewStatsService(st.Requests, st.Assets, log),
	}
}
