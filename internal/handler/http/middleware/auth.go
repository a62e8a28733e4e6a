package middleware

import (
	"context"
	"net/http"

	"github.com/atikes/hr-backend-go/internal/domain/auth"
	"github.com/atikes/hr-backend-go/internal/domain/user"
	"github.com/atikes/hr-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// AuthRequired accepts verified access tokens and stores the caller identity
// in the request context. Mount after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != "access" || !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		userID, _ := claims["user_id"].(string)
		employeeID, _ := claims["employee_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" || !user.Role(role).IsValid() {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity := user.Identity{UserID: userID, EmployeeID: employeeID, Role: user.Role(role)}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
	return http.HandlerFunc(hfn)
}

func WithIdentity(ctx context.Context, identity user.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller set by AuthRequired.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(user.Identity)
	return identity, ok
}
