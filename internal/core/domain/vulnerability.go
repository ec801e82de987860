package domain

import (
	"errors"
	"time"
)

// Severity grades a vulnerability or threat record.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// IsValid checks if the severity is recognized.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// VulnStatus tracks remediation progress on a finding.
type VulnStatus string

const (
	VulnStatusOpen       VulnStatus = "open"
	VulnStatusFixed      VulnStatus = "fixed"
	VulnStatusInProgress VulnStatus = "in_progress"
	VulnStatusIgnored    VulnStatus = "ignored"
)

// IsValid checks if the status is recognized.
func (s VulnStatus) IsValid() bool {
	switch s {
	case VulnStatusOpen, VulnStatusFixed, VulnStatusInProgress, VulnStatusIgnored:
		return true
	}
	return false
}

var (
	ErrEmptyVulnName      = errors.New("vulnerability name cannot be empty")
	ErrInvalidSeverity    = errors.New("invalid severity")
	ErrInvalidVulnStatus  = errors.New("invalid vulnerability status")
	ErrInvalidCVSSScore   = errors.New("cvss score must be between 0 and 10")
	ErrVulnParentRequired = errors.New("vulnerability must belong to a device")
)

// Vulnerability is a specific weakness identified on a device.
type Vulnerability struct {
	ID                uint       `json:"id"`
	DeviceID          uint       `json:"device_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Severity          Severity   `json:"severity"`
	CVSSScore         float64    `json:"cvss_score"`
	CVEID             string     `json:"cve_id,omitempty"`
	AffectedComponent string     `json:"affected_component,omitempty"`
	Remediation       string     `json:"remediation,omitempty"`
	DiscoveredAt      time.Time  `json:"discovered_at"`
	Status            VulnStatus `json:"status"`
}

// Validate ensures the vulnerability entity is in a valid state.
func (v *Vulnerability) Validate() error {
	if v.DeviceID == 0 {
		return ErrVulnParentRequired
	}
	if v.Name == "" {
		return ErrEmptyVulnName
	}
	if !v.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	if v.Status != "" && !v.Status.IsValid() {
		return ErrInvalidVulnStatus
	}
	if v.CVSSScore < 0 || v.CVSSScore > 10 {
		return ErrInvalidCVSSScore
	}
	return nil
}

// VulnerabilityFilter narrows vulnerability queries. Zero values are ignored.
type VulnerabilityFilter struct {
	DeviceID uint
	ScanID   uint
	Severity Severity
	Status   VulnStatus
}
