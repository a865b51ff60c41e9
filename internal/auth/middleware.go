package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const customerIDContextKey contextKey = "customer_id"

// Middleware validates the bearer token and puts the authenticated
// customer id into the request context.
func Middleware(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeUnauthorized(w)
				return
			}

			customerID, err := tokens.Verify(parts[1])
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), customerIDContextKey, customerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerID returns the authenticated customer id set by Middleware.
func CustomerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerIDContextKey).(uuid.UUID)
	return id, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"UNAUTHORIZED","message":"missing or invalid bearer token"}`))
}
