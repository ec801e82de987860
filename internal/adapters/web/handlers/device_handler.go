package handlers

import (
	"net/http"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// DeviceHandler exposes read access to discovered hosts.
type DeviceHandler struct {
	Devices ports.DeviceRepository
}

// NewDeviceHandler creates a DeviceHandler over the device repository.
func NewDeviceHandler(devices ports.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{Devices: devices}
}

// HandleGet returns one device.
func (h *DeviceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	device, err := h.Devices.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// HandleList returns devices filtered by scan_id, device_type, vulnerable,
// and solar query parameters.
func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.DeviceFilter{
		DeviceType: r.URL.Query().Get("device_type"),
		Vulnerable: queryBool(r, "vulnerable"),
		Solar:      queryBool(r, "solar"),
	}
	if scanID, ok := queryUint(r, "scan_id"); ok {
		filter.ScanID = scanID
	}

	devices, err := h.Devices.Find(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}
