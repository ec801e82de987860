package handlers

import (
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// UserHandler exposes account administration. All routes are admin-only.
type UserHandler struct {
	Users ports.UserRepository
}

// NewUserHandler creates a UserHandler over the user repository.
func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// HandleList returns all accounts.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGet returns one account.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes an account. The delete is blocked with 409 while
// scans, reports, or firewall rules still reference the user.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
