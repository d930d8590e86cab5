package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/httpapi"
	"github.com/iota-uz/hr-console/pkg/server"
)

const sessionExpiredMessage = "Session expired. Please log in again."

type Controller = server.Controller

// NewRouter mounts controllers without the gzip and logging layers that
// serve adds.
func NewRouter(controllers ...Controller) *mux.Router {
	return server.NewHTTPServer(controllers).Router()
}

func ensureSession(w http.ResponseWriter, auth services.Authenticator) bool {
	if auth != nil && auth.IsAuthenticated() {
		return true
	}
	_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", sessionExpiredMessage, nil)
	return false
}

// RequireSession rejects requests while no session token is stored.
func RequireSession(auth services.Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ensureSession(w, auth) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
