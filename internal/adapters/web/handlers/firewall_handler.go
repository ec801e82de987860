package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// FirewallHandler exposes CRUD on user-managed firewall rules.
type FirewallHandler struct {
	Rules ports.FirewallRepository
}

// NewFirewallHandler creates a FirewallHandler over the rule repository.
func NewFirewallHandler(rules ports.FirewallRepository) *FirewallHandler {
	return &FirewallHandler{Rules: rules}
}

// HandleCreate stores a new rule owned by the caller.
func (h *FirewallHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var rule domain.FirewallRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	rule.ID = 0
	rule.UserID = user.ID
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := rule.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Rules.Create(r.Context(), &rule); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// HandleList returns the caller's rules ordered by priority, lowest value
// (evaluated first) on top.
func (h *FirewallHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	rules, err := h.Rules.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// HandleGet returns one rule.
func (h *FirewallHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule, err := h.Rules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// HandleUpdate replaces the mutable fields of a rule.
func (h *FirewallHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := h.Rules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var rule domain.FirewallRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	rule.ID = existing.ID
	rule.UserID = existing.UserID
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now().UTC()

	if err := rule.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Rules.Update(r.Context(), &rule); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// HandleSetActive toggles a rule on or off.
func (h *FirewallHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	if err := h.Rules.SetActive(r.Context(), id, req.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

// HandleDelete removes a rule.
func (h *FirewallHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Rules.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
