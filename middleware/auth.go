package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

type ctxKey int

const identityKey ctxKey = 0

// IdentityFrom returns the resolved caller identity placed in the request
// context by Auth. The second result is false on unauthenticated requests.
func IdentityFrom(ctx context.Context) (service.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(service.Identity)
	return ident, ok
}

// WithIdentity is used by tests to build authenticated request contexts.
func WithIdentity(ctx context.Context, ident service.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// Auth is the access policy gate adapter: it verifies the bearer token,
// resolves the caller's current role and HR affiliation, and stores the
// identity in the request context for the handlers.
func Auth(auth *service.AuthService, log *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			ident, err := auth.Resolve(r.Context(), token)
			if err != nil {
				log.Debugw("token resolution failed", "error", err)
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}
