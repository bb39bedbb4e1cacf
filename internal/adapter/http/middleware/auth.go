package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
)

// Authenticate verifies the bearer token and replaces the request actor with
// the identity in its claims.
func Authenticate(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, domain.ErrUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, domain.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			actor := claims.Actor()
			meta := requestActor(r)
			actor.IPAddress = meta.IPAddress
			actor.UserAgent = meta.UserAgent
			actor.RequestID = meta.RequestID

			ctx := domain.ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose actor role fails allowed.
func RequireRole(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := domain.ActorFromContext(r.Context())
			if actor.IsSystem() {
				writeUnauthorized(w, domain.ErrUnauthorized)
				return
			}

			if !allowed(actor.Role) {
				handler.WriteError(w, http.StatusForbidden, "FORBIDDEN", domain.ErrInsufficientRole.Error(), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	handler.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
}
