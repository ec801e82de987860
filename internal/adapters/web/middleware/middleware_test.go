package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

func roleRequest(t *testing.T, userRole, requiredRole domain.Role) int {
	t.Helper()
	handler := RoleMiddleware(requiredRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	user := &domain.User{ID: 1, Username: "u", Role: userRole}
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code
}

func TestRoleHierarchy(t *testing.T) {
	cases := []struct {
		user     domain.Role
		required domain.Role
		want     int
	}{
		{domain.RoleAdmin, domain.RoleAdmin, http.StatusOK},
		{domain.RoleAdmin, domain.RoleViewer, http.StatusOK},
		{domain.RoleOperator, domain.RoleOperator, http.StatusOK},
		{domain.RoleOperator, domain.RoleAdmin, http.StatusForbidden},
		{domain.RoleViewer, domain.RoleViewer, http.StatusOK},
		{domain.RoleViewer, domain.RoleOperator, http.StatusForbidden},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, roleRequest(t, tc.user, tc.required),
			"user=%s required=%s", tc.user, tc.required)
	}
}

func TestRoleMiddlewareWithoutUser(t *testing.T) {
	handler := RoleMiddleware(domain.RoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("10.0.0.1:1000"))
	assert.True(t, limiter.Allow("10.0.0.1:1000"))
	assert.False(t, limiter.Allow("10.0.0.1:1000"))

	// Other clients keep their own budget.
	assert.True(t, limiter.Allow("10.0.0.2:1000"))
}
