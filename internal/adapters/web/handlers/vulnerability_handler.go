package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// VulnerabilityHandler exposes findings: recording them against a device of
// a running scan and tracking their remediation status afterwards.
type VulnerabilityHandler struct {
	Service ports.ScanService
	Vulns   ports.VulnerabilityRepository
}

// NewVulnerabilityHandler creates a VulnerabilityHandler.
func NewVulnerabilityHandler(service ports.ScanService, vulns ports.VulnerabilityRepository) *VulnerabilityHandler {
	return &VulnerabilityHandler{Service: service, Vulns: vulns}
}

// HandleRecord stores a finding against the device in the path.
func (h *VulnerabilityHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	deviceID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var vuln domain.Vulnerability
	if err := json.NewDecoder(r.Body).Decode(&vuln); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	vuln.DeviceID = deviceID

	if err := h.Service.RecordVulnerability(r.Context(), &vuln); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vuln)
}

// HandleList returns findings filtered by device_id, scan_id, severity, and
// status query parameters.
func (h *VulnerabilityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.VulnerabilityFilter{
		Severity: domain.Severity(r.URL.Query().Get("severity")),
		Status:   domain.VulnStatus(r.URL.Query().Get("status")),
	}
	if deviceID, ok := queryUint(r, "device_id"); ok {
		filter.DeviceID = deviceID
	}
	if scanID, ok := queryUint(r, "scan_id"); ok {
		filter.ScanID = scanID
	}

	vulns, err := h.Vulns.Find(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vulns)
}

// HandleGet returns one finding.
func (h *VulnerabilityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vuln, err := h.Vulns.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vuln)
}

// HandleUpdateStatus moves a finding through open/fixed/in_progress/ignored.
func (h *VulnerabilityHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Status domain.VulnStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if !req.Status.IsValid() {
		writeError(w, domain.ErrInvalidVulnStatus)
		return
	}

	if err := h.Vulns.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
