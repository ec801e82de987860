package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// SolarHandler exposes the per-scan solar inverter assessment.
type SolarHandler struct {
	Service ports.ScanService
	Solar   ports.SolarAssessmentRepository
}

// NewSolarHandler creates a SolarHandler.
func NewSolarHandler(service ports.ScanService, solar ports.SolarAssessmentRepository) *SolarHandler {
	return &SolarHandler{Service: service, Solar: solar}
}

// HandleAttach stores the single assessment of the running scan in the path.
func (h *SolarHandler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	scanID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var assessment domain.SolarAssessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	assessment.ScanID = scanID

	if err := h.Service.AttachSolarAssessment(r.Context(), &assessment); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assessment)
}

// HandleGet returns the assessment of the scan in the path.
func (h *SolarHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	scanID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	assessment, err := h.Solar.GetByScan(r.Context(), scanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}
