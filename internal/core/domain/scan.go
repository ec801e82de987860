package domain

import (
	"errors"
	"time"
)

// ScanType selects what the assessment covers.
type ScanType string

const (
	ScanTypeStandard     ScanType = "standard"
	ScanTypeDeep         ScanType = "deep"
	ScanTypeSolarFocused ScanType = "solar_focused"
)

// IsValid checks if the scan type is recognized.
func (t ScanType) IsValid() bool {
	switch t {
	case ScanTypeStandard, ScanTypeDeep, ScanTypeSolarFocused:
		return true
	}
	return false
}

// ScanStatus tracks the lifecycle of a scan.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// IsValid checks if the status is recognized.
func (s ScanStatus) IsValid() bool {
	switch s {
	case ScanStatusPending, ScanStatusRunning, ScanStatusCompleted, ScanStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s ScanStatus) Terminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusFailed
}

var (
	ErrEmptyScanName    = errors.New("scan name cannot be empty")
	ErrEmptyRange       = errors.New("network range cannot be empty")
	ErrInvalidScanType  = errors.New("invalid scan type")
	ErrInvalidStatus    = errors.New("invalid scan status")
	ErrScanOwnerMissing = errors.New("scan must belong to a user")
)

// Scan is one execution of a network assessment against a target range.
// It owns the devices discovered during the run and, for solar-focused
// assessments, at most one SolarAssessment.
type Scan struct {
	ID                uint       `json:"id"`
	UserID            uint       `json:"user_id"`
	Name              string     `json:"name"`
	NetworkRange      string     `json:"network_range"`
	ScanType          ScanType   `json:"scan_type"`
	Status            ScanStatus `json:"status"`
	TotalDevices      int        `json:"total_devices"`
	VulnerableDevices int        `json:"vulnerable_devices"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
}

// NewScan creates a pending scan for the given user and target range.
func NewScan(userID uint, name, networkRange string, scanType ScanType) (*Scan, error) {
	if scanType == "" {
		scanType = ScanTypeStandard
	}
	s := &Scan{
		UserID:       userID,
		Name:         name,
		NetworkRange: networkRange,
		ScanType:     scanType,
		Status:       ScanStatusPending,
		StartTime:    time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate ensures the scan entity is in a valid state.
func (s *Scan) Validate() error {
	if s.UserID == 0 {
		return ErrScanOwnerMissing
	}
	if s.Name == "" {
		return ErrEmptyScanName
	}
	if s.NetworkRange == "" {
		return ErrEmptyRange
	}
	if !s.ScanType.IsValid() {
		return ErrInvalidScanType
	}
	if !s.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Terminal reports whether the scan has completed or failed.
func (s *Scan) Terminal() bool {
	return s.Status.Terminal()
}

// TransitionTo moves the scan through its lifecycle. Allowed transitions are
// pending -> running and running -> completed/failed. Terminal transitions
// stamp EndTime.
func (s *Scan) TransitionTo(next ScanStatus) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	switch {
	case s.Status == ScanStatusPending && next == ScanStatusRunning:
	case s.Status == ScanStatusRunning && next.Terminal():
	default:
		return ErrInvalidTransition
	}
	s.Status = next
	if next.Terminal() {
		now := time.Now().UTC()
		s.EndTime = &now
	}
	return nil
}
