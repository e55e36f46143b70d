package httputil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mergington/activityhub/internal/domain"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

// UserKey is the context key holding the authenticated user.
const UserKey contextKey = "user"

// IdentityResolver turns a raw bearer token into the current stored user
// record.
type IdentityResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns "" if the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware creates authentication middleware. The resolved user is
// always the live store record, never the token's role snapshot.
// Resolver failures are mapped through mappings, so an inactive account
// surfaces as 403 while a bad token stays 401.
func AuthMiddleware(resolver IdentityResolver, mappings []ErrorMapping) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				Error(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			user, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				HandleError(r.Context(), w, err, mappings)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from context. Returns nil on
// unauthenticated requests.
func GetUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// RateLimitMiddleware creates a per-client rate limiter keyed by remote
// IP. Apply to credential endpoints to slow brute-force attempts.
// Limiter entries live for the process lifetime: one map entry per
// distinct client address ever seen, never swept.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.RemoteAddr
			if i := strings.LastIndex(host, ":"); i > 0 {
				host = host[:i]
			}

			if !limiterFor(host).Allow() {
				Error(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
