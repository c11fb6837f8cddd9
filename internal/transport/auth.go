package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type keyNameKey struct{}

// KeyResolver resolves the name of an API key from a bearer token.
type KeyResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// KeyNameFromContext returns the name of the API key that authenticated
// the request, if any.
func KeyNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(keyNameKey{}).(string)
	return name, ok
}

// BearerToken extracts the token of an Authorization: Bearer header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver KeyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, &APIError{Code: "UNAUTHORIZED", Message: "missing bearer token"})
				return
			}

			name, err := resolver.Resolve(r.Context(), token)
			if err != nil || name == "" {
				WriteError(w, http.StatusUnauthorized, &APIError{Code: "UNAUTHORIZED", Message: "invalid bearer token"})
				return
			}

			ctx := context.WithValue(r.Context(), keyNameKey{}, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
