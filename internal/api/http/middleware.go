package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/security"
)

type contextKey string

const (
	contextKeyUserUID   contextKey = "user_uid"
	contextKeyRequestID contextKey = "request_id"
)

// UserUIDFromContext returns the authenticated member uid, empty when
// the request was not authenticated.
func UserUIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(contextKeyUserUID).(string)
	return uid
}

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		logger.Debug("→ Request", "request_id", requestID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware validates the bearer token and stores the member uid
// in the request context. Token minting is the auth collaborator's job;
// this layer only checks signatures and expiry.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
