package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/services/reporting"
)

// ReportHandler exposes report registration for finished scans.
type ReportHandler struct {
	Service *reporting.Service
}

// NewReportHandler creates a ReportHandler over the reporting service.
func NewReportHandler(service *reporting.Service) *ReportHandler {
	return &ReportHandler{Service: service}
}

type registerReportRequest struct {
	ScanID     uint              `json:"scan_id"`
	ReportType domain.ReportType `json:"report_type"`
}

// HandleRegister creates a report record for a terminal scan owned by the
// caller.
func (h *ReportHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req registerReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	report, err := h.Service.Register(r.Context(), user.ID, req.ScanID, req.ReportType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// HandleList returns the caller's reports, or a scan's reports with
// ?scan_id=.
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		reports []domain.Report
		err     error
	)
	if scanID, byScan := queryUint(r, "scan_id"); byScan {
		reports, err = h.Service.ListByScan(r.Context(), scanID)
	} else {
		reports, err = h.Service.ListByUser(r.Context(), user.ID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleDelete removes a report record.
func (h *ReportHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
