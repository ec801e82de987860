package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// ThreatHandler exposes the threat intelligence feed. The feed lives on its
// own lifecycle, independent of scans.
type ThreatHandler struct {
	Repo ports.ThreatRepository
}

// NewThreatHandler creates a ThreatHandler over the feed repository.
func NewThreatHandler(repo ports.ThreatRepository) *ThreatHandler {
	return &ThreatHandler{Repo: repo}
}

// HandleList returns feed entries filtered by threat_type, severity, solar,
// and iot query parameters. ?limit= caps the result.
func (h *ThreatHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.ThreatFilter{
		ThreatType:    r.URL.Query().Get("threat_type"),
		Severity:      domain.Severity(r.URL.Query().Get("severity")),
		SolarRelevant: queryBool(r, "solar"),
		IoTRelevant:   queryBool(r, "iot"),
	}
	if limit, ok := queryUint(r, "limit"); ok {
		filter.Limit = int(limit)
	}

	records, err := h.Repo.Find(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGet returns one feed entry.
func (h *ThreatHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID64(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	record, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleSearch matches ?q= keywords against titles and descriptions.
func (h *ThreatHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}

	records, err := h.Repo.SearchByKeywords(r.Context(), strings.Fields(q))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleUpsert inserts or refreshes a feed entry. Admin-only; bulk loading
// goes through the feed loader instead.
func (h *ThreatHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var rec domain.ThreatRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if err := rec.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Repo.Upsert(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "stored"})
}

// HandleStatus reports the feed size and the last synchronization.
func (h *ThreatHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := h.Repo.TotalCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sync, err := h.Repo.LastSync(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_records": count,
		"last_sync":     sync,
	})
}
