package middleware

import (
	"net"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gosettle/internal/domain"
)

// Actor identity headers set by the identity provider in front of the service.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// Actor reads the caller identity from the actor headers and stores it in the
// request context. Requests without X-User-Id run as the system actor.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := requestActor(r)
		actor.ID = r.Header.Get(HeaderUserID)
		if actor.ID == "" {
			actor.ID = domain.SystemActorID
		}
		actor.Name = r.Header.Get(HeaderUserName)
		actor.Email = r.Header.Get(HeaderUserEmail)
		actor.Role = domain.Role(r.Header.Get(HeaderUserRole))

		ctx := domain.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestActor returns an actor carrying only the request metadata.
func requestActor(r *http.Request) domain.Actor {
	return domain.Actor{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
