package auth

import (
	"context"
	"net/http"
	"strconv"
)

// The surrounding application authenticates requests and forwards the caller
// identity in these headers; this core never performs authentication itself.
const (
	UserHeader        = "X-User-ID"
	FingerprintHeader = "X-Voter-Fingerprint"
)

type contextKey int

const userKey contextKey = iota

// Middleware extracts the authenticated user ID (if any) into the request
// context. Requests without a valid user header proceed as anonymous.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(UserHeader); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil && id > 0 {
				r = r.WithContext(WithUser(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying the authenticated user ID
func WithUser(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserID returns the authenticated user ID from the context, or nil for
// anonymous requests.
func UserID(ctx context.Context) *int {
	if id, ok := ctx.Value(userKey).(int); ok {
		return &id
	}
	return nil
}

// RequireUser wraps a handler and rejects anonymous requests
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == nil {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// Fingerprint returns the anonymous voter fingerprint header, if present
func Fingerprint(r *http.Request) string {
	return r.Header.Get(FingerprintHeader)
}
