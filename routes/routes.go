package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/handlers"
	"github.com/shahriakhansejan/core-bits-server/middleware"
	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

// New wires the full HTTP surface onto a mux router.
func New(h *handlers.Handler, auth *service.AuthService, hub *websocket.Hub, client *mongo.Client, log *zap.SugaredLogger) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS)

	// ====================
	// PUBLIC ROUTES
	// ====================
	r.HandleFunc("/health", handlers.HealthCheck(client)).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/auth/login", h.Login).Methods(MethodsPostOnly...)

	// Validate sits outside the /api subrouter but still wants the resolved
	// identity, so the auth middleware wraps just this route.
	r.Handle("/api/auth/validate", middleware.Auth(auth, log)(http.HandlerFunc(h.ValidateToken))).Methods(MethodsGetOnly...)

	// Websocket clients pass the token as a query parameter, so the
	// route stays outside the Bearer-header middleware.
	r.HandleFunc("/api/ws", hub.ServeWS(auth)).Methods("GET")

	// ====================
	// PROTECTED API ROUTES
	// ====================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(auth, log))

	// USERS
	api.HandleFunc("/users/me", h.Me).Methods(MethodsGetOnly...)
	api.HandleFunc("/users", h.ListUsers).Methods(MethodsGetOnly...)
	api.HandleFunc("/users/{id}/role", h.AssignRole).Methods(MethodsPutOnly...)
	api.HandleFunc("/team", h.ListTeam).Methods(MethodsGetOnly...)
	api.HandleFunc("/hr-info", h.GetHRInfo).Methods(MethodsGetOnly...)
	api.HandleFunc("/hr-info/package", h.UpdatePackage).Methods(MethodsPutOnly...)

	// ASSETS (HR inventory management)
	api.HandleFunc("/assets", h.ListAssets).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets", h.CreateAsset).Methods(MethodsPostOnly...)
	api.HandleFunc("/assets/{id}", h.GetAsset).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets/{id}", h.UpdateAsset).Methods(MethodsPutOnly...)
	api.HandleFunc("/assets/{id}", h.DeleteAsset).Methods(MethodsDeleteOnly...)

	// ASSETS (employee browse view, scoped to their HR's inventory)
	api.HandleFunc("/hr-assets", h.ListTeamAssets).Methods(MethodsGetOnly...)
	api.HandleFunc("/hr-assets/{id}", h.GetAsset).Methods(MethodsGetOnly...)

	// REQUEST LIFECYCLE
	api.HandleFunc("/requests", h.CreateRequest).Methods(MethodsPostOnly...)
	api.HandleFunc("/requests", h.ListMyRequests).Methods(MethodsGetOnly...)
	api.HandleFunc("/requests/summary", h.GetRequestSummary).Methods(MethodsGetOnly...)
	api.HandleFunc("/requests/{id}/approve", h.ApproveRequest).Methods(MethodsPutOnly...)
	api.HandleFunc("/requests/{id}/reject", h.RejectRequest).Methods(MethodsDeleteOnly...)
	api.HandleFunc("/requests/{id}/return", h.ReturnRequest).Methods(MethodsPutOnly...)
	api.HandleFunc("/requests/{id}", h.WithdrawRequest).Methods(MethodsDeleteOnly...)
	api.HandleFunc("/hr-requests", h.ListHRRequests).Methods(MethodsGetOnly...)

	// DASHBOARD
	api.HandleFunc("/hr-stats", h.GetHRStats).Methods(MethodsGetOnly...)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return r
}
