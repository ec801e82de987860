package handlers

import (
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/adapters/web/middleware"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// currentUser pulls the authenticated user placed on the context by
// AuthMiddleware.
func currentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
