package middleware

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// Authenticator resolves the caller from a raw Authorization header,
// including the logout blacklist check.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (domain.SessionClaim, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token> and injects the
// session claim into the request context.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			claim, err := authn.Authenticate(r.Context(), h)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if claim.UserID <= 0 {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithClaim(r.Context(), claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
