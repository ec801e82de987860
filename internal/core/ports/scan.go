package ports

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// ScanService coordinates the scan lifecycle and the findings recorded
// during a run.
type ScanService interface {
	Create(ctx context.Context, userID uint, name, networkRange string, scanType domain.ScanType) (*domain.Scan, error)
	Get(ctx context.Context, id uint) (*domain.Scan, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Scan, error)
	// Start moves a pending scan to running.
	Start(ctx context.Context, id uint) (*domain.Scan, error)
	// Complete and Fail move a running scan to its terminal state and set
	// the end time.
	Complete(ctx context.Context, id uint) (*domain.Scan, error)
	Fail(ctx context.Context, id uint) (*domain.Scan, error)
	// RecordDevice stores a discovered host against a running scan and
	// maintains the scan's device counters.
	RecordDevice(ctx context.Context, device *domain.Device) error
	// RecordVulnerability stores a finding, flags the owning device and
	// bumps the scan's vulnerable-device counter on first finding.
	RecordVulnerability(ctx context.Context, vuln *domain.Vulnerability) error
	// AttachSolarAssessment stores the single solar assessment of a
	// running scan.
	AttachSolarAssessment(ctx context.Context, assessment *domain.SolarAssessment) error
	// Delete removes the scan and everything it owns.
	Delete(ctx context.Context, id uint) error
}

// ScanEvent describes a lifecycle change broadcast to listeners.
type ScanEvent struct {
	Type string       `json:"type"` // scan_created, scan_status, scan_deleted
	Scan *domain.Scan `json:"scan,omitempty"`
	ID   uint         `json:"id"`
}

// ScanEventListener receives lifecycle events, e.g. a websocket hub.
type ScanEventListener interface {
	ScanEvent(event ScanEvent)
}
