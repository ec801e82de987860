package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"github.com/sunscan-sec/sunscan/internal/telemetry"
)

// Service implements ports.ScanService. It owns the scan lifecycle and keeps
// the per-scan device counters in step with the findings recorded under it.
type Service struct {
	scans    ports.ScanRepository
	devices  ports.DeviceRepository
	vulns    ports.VulnerabilityRepository
	solar    ports.SolarAssessmentRepository
	listener ports.ScanEventListener
}

// NewService creates a scan service over the given repositories.
func NewService(
	scans ports.ScanRepository,
	devices ports.DeviceRepository,
	vulns ports.VulnerabilityRepository,
	solar ports.SolarAssessmentRepository,
) *Service {
	return &Service{
		scans:   scans,
		devices: devices,
		vulns:   vulns,
		solar:   solar,
	}
}

// Ensure interface compliance
var _ ports.ScanService = (*Service)(nil)

// SetEventListener wires a lifecycle event sink, e.g. the websocket hub.
func (s *Service) SetEventListener(l ports.ScanEventListener) {
	s.listener = l
}

func (s *Service) emit(event ports.ScanEvent) {
	if s.listener != nil {
		s.listener.ScanEvent(event)
	}
}

// Create registers a new pending scan for the user.
func (s *Service) Create(ctx context.Context, userID uint, name, networkRange string, scanType domain.ScanType) (*domain.Scan, error) {
	scan, err := domain.NewScan(userID, name, networkRange, scanType)
	if err != nil {
		return nil, err
	}
	if err := s.scans.Create(ctx, scan); err != nil {
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}
	telemetry.ScansStarted.WithLabelValues(string(scan.ScanType)).Inc()
	s.emit(ports.ScanEvent{Type: "scan_created", Scan: scan, ID: scan.ID})
	return scan, nil
}

// Get retrieves a scan by ID.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Scan, error) {
	return s.scans.GetByID(ctx, id)
}

// ListByUser returns the user's scans, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]domain.Scan, error) {
	return s.scans.ListByUser(ctx, userID)
}

// Start moves a pending scan to running.
func (s *Service) Start(ctx context.Context, id uint) (*domain.Scan, error) {
	return s.transition(ctx, id, domain.ScanStatusRunning)
}

// Complete moves a running scan to completed and stamps the end time.
func (s *Service) Complete(ctx context.Context, id uint) (*domain.Scan, error) {
	return s.transition(ctx, id, domain.ScanStatusCompleted)
}

// Fail moves a running scan to failed and stamps the end time.
func (s *Service) Fail(ctx context.Context, id uint) (*domain.Scan, error) {
	return s.transition(ctx, id, domain.ScanStatusFailed)
}

func (s *Service) transition(ctx context.Context, id uint, next domain.ScanStatus) (*domain.Scan, error) {
	scan, err := s.scans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scan.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.scans.Update(ctx, scan); err != nil {
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}
	telemetry.ScanTransitions.WithLabelValues(string(next)).Inc()
	s.emit(ports.ScanEvent{Type: "scan_status", Scan: scan, ID: scan.ID})
	return scan, nil
}

// RecordDevice stores a host discovered by the running scan and maintains
// the scan counters. Devices cannot be added to pending or terminal scans.
func (s *Service) RecordDevice(ctx context.Context, device *domain.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}
	scan, err := s.scans.GetByID(ctx, device.ScanID)
	if err != nil {
		return err
	}
	if scan.Status != domain.ScanStatusRunning {
		return domain.ErrScanNotRunning
	}

	if device.LastSeen.IsZero() {
		device.LastSeen = time.Now().UTC()
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return err
	}

	scan.TotalDevices++
	if device.IsVulnerable {
		scan.VulnerableDevices++
	}
	if err := s.scans.Update(ctx, scan); err != nil {
		return fmt.Errorf("failed to update scan counters: %w", err)
	}
	telemetry.DevicesRecorded.Inc()
	return nil
}

// RecordVulnerability stores a finding against a device of a running scan,
// flags the device, and bumps the scan's vulnerable-device counter the first
// time that device turns out vulnerable.
func (s *Service) RecordVulnerability(ctx context.Context, vuln *domain.Vulnerability) error {
	if vuln.Status == "" {
		vuln.Status = domain.VulnStatusOpen
	}
	if vuln.DiscoveredAt.IsZero() {
		vuln.DiscoveredAt = time.Now().UTC()
	}
	if err := vuln.Validate(); err != nil {
		return err
	}

	device, err := s.devices.GetByID(ctx, vuln.DeviceID)
	if err != nil {
		return err
	}
	scan, err := s.scans.GetByID(ctx, device.ScanID)
	if err != nil {
		return err
	}
	if scan.Status != domain.ScanStatusRunning {
		return domain.ErrScanNotRunning
	}

	if err := s.vulns.Create(ctx, vuln); err != nil {
		return err
	}

	flipped, err := s.devices.MarkVulnerable(ctx, device.ID)
	if err != nil {
		return err
	}
	if flipped {
		scan.VulnerableDevices++
		if err := s.scans.Update(ctx, scan); err != nil {
			return fmt.Errorf("failed to update scan counters: %w", err)
		}
	}
	telemetry.VulnerabilitiesRecorded.WithLabelValues(string(vuln.Severity)).Inc()
	return nil
}

// AttachSolarAssessment stores the scan's single solar assessment. The scan
// must be running; the one-per-scan invariant holds regardless of status and
// is enforced again by the storage layer.
func (s *Service) AttachSolarAssessment(ctx context.Context, assessment *domain.SolarAssessment) error {
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}
	if err := assessment.Validate(); err != nil {
		return err
	}
	scan, err := s.scans.GetByID(ctx, assessment.ScanID)
	if err != nil {
		return err
	}
	if scan.Status != domain.ScanStatusRunning {
		return domain.ErrScanNotRunning
	}
	return s.solar.Create(ctx, assessment)
}

// Delete removes the scan and everything it owns.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.scans.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ports.ScanEvent{Type: "scan_deleted", ID: id})
	return nil
}
