package middleware

import (
	"net/http"

	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/pkg/enums"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// RequireRole gates a route to callers carrying the given role. It assumes
// Identity already ran; anonymous callers get a 401, known callers with the
// wrong role a 403.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if actor.Anonymous() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if actor.Role != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
