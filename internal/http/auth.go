package httpapi

import (
	"context"
	"net/http"
	"strings"

	"portfolio-backend-go/internal/services"
)

type contextKey string

const ctxSubject contextKey = "subject"

// WithAuth rejects requests without a valid admin bearer token.
func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeServiceError(w, r, services.ErrUnauthorized("Authentication required"))
				return
			}
			subject, err := tokens.ParseAccessToken(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				writeServiceError(w, r, services.ErrUnauthorized("Authentication failed"))
				return
			}
			ctx := context.WithValue(r.Context(), ctxSubject, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentSubject(r *http.Request) string {
	if value, ok := r.Context().Value(ctxSubject).(string); ok {
		return value
	}
	return ""
}
