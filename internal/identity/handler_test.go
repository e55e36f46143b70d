package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/mergington/activityhub/internal/pkg/httputil"
)

func TestRegisterRoutes_LimiterScopedToLogin(t *testing.T) {
	repo := newMockRepository()
	handler := NewHandler(newService(repo, &mockAuthenticator{}))

	r := chi.NewRouter()
	// A zero-rate, zero-burst limiter rejects everything it guards.
	handler.RegisterRoutes(r, httputil.RateLimitMiddleware(0, 0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@mergington.edu","password":"whatever1"}`)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"new@mergington.edu","password":"password123","full_name":"New Kid"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}
