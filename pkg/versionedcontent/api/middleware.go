package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

type contextKey string

const ownerContextKey contextKey = "owner_id"

// Authenticator requires a verified JWT carrying an "owner_id" claim and
// places the parsed owner ID on the request context. Mount it after
// jwtauth.Verifier.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		raw, ok := claims["owner_id"].(string)
		if !ok {
			http.Error(w, "missing owner_id claim", http.StatusUnauthorized)
			return
		}
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid owner_id claim", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
	})
}

// WithOwner returns a context carrying the owner ID. Exposed for tests
// and for callers that authenticate by other means.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerContextKey, ownerID)
}

// OwnerFromContext extracts the owner ID placed by Authenticator.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ownerContextKey).(uuid.UUID)
	return ownerID, ok
}
