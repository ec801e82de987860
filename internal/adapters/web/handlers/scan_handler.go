package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// ScanHandler exposes the scan lifecycle: creation, status transitions,
// recording findings, and deletion.
type ScanHandler struct {
	Service ports.ScanService
}

// NewScanHandler creates a ScanHandler over the scan service.
func NewScanHandler(service ports.ScanService) *ScanHandler {
	return &ScanHandler{Service: service}
}

type createScanRequest struct {
	Name         string          `json:"name"`
	NetworkRange string          `json:"network_range"`
	ScanType     domain.ScanType `json:"scan_type"`
}

// HandleCreate registers a new pending scan owned by the caller.
func (h *ScanHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	scan, err := h.Service.Create(r.Context(), user.ID, req.Name, req.NetworkRange, req.ScanType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scan)
}

// HandleList returns the caller's scans. Admins may list another user's
// scans with ?user_id=.
func (h *ScanHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID := user.ID
	if id, ok := queryUint(r, "user_id"); ok && user.IsAdmin() {
		userID = id
	}

	scans, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// HandleGet returns one scan.
func (h *ScanHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scan, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// HandleStart moves a pending scan to running.
func (h *ScanHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Start)
}

// HandleComplete moves a running scan to completed.
func (h *ScanHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Complete)
}

// HandleFail moves a running scan to failed.
func (h *ScanHandler) HandleFail(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Fail)
}

func (h *ScanHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uint) (*domain.Scan, error)) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scan, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// HandleDelete removes the scan and everything it owns.
func (h *ScanHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// HandleRecordDevice stores a discovered host against the running scan in
// the path.
func (h *ScanHandler) HandleRecordDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var device domain.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	device.ScanID = id

	if err := h.Service.RecordDevice(r.Context(), &device); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}
