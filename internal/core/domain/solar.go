package domain

import (
	"errors"
	"time"
)

// Grade rates authentication strength or encryption posture.
type Grade string

const (
	GradeWeak     Grade = "Weak"
	GradeModerate Grade = "Moderate"
	GradeStrong   Grade = "Strong"
)

// IsValid checks if the grade is recognized.
func (g Grade) IsValid() bool {
	switch g {
	case GradeWeak, GradeModerate, GradeStrong:
		return true
	}
	return false
}

// FirmwareState rates the firmware currency of the assessed installation.
type FirmwareState string

const (
	FirmwareOutdated FirmwareState = "Outdated"
	FirmwareCurrent  FirmwareState = "Up-to-date"
)

// IsValid checks if the firmware state is recognized.
func (f FirmwareState) IsValid() bool {
	return f == FirmwareOutdated || f == FirmwareCurrent
}

var (
	ErrInvalidSecurityScore  = errors.New("security score must be between 0 and 100")
	ErrInvalidIsolationScore = errors.New("network isolation score must be between 0 and 10")
	ErrInvalidGrade          = errors.New("invalid strength grade")
	ErrInvalidFirmwareState  = errors.New("invalid firmware state")
)

// SolarFinding is a single issue found on the solar installation. Findings
// are grouped by subsystem on the assessment and serialized at the storage
// boundary.
type SolarFinding struct {
	Title       string   `json:"title"`
	Severity    Severity `json:"severity,omitempty"`
	Description string   `json:"description,omitempty"`
	Component   string   `json:"component,omitempty"`
}

// SolarAssessment is the specialized scoring record for solar-inverter and
// monitoring security. A scan owns at most one, regardless of its status.
type SolarAssessment struct {
	ID                     uint           `json:"id"`
	ScanID                 uint           `json:"scan_id"`
	SecurityScore          int            `json:"security_score"`          // 0-100
	InverterVulns          []SolarFinding `json:"inverter_vulnerabilities"`
	MonitoringVulns        []SolarFinding `json:"monitoring_system_vulnerabilities"`
	ProtocolIssues         []SolarFinding `json:"communication_protocol_issues"`
	NetworkIsolationScore  int            `json:"network_isolation_score"` // 0-10
	AuthenticationStrength Grade          `json:"authentication_strength"`
	EncryptionStatus       Grade          `json:"encryption_status"`
	FirmwareStatus         FirmwareState  `json:"firmware_status"`
	Recommendations        []string       `json:"recommendations"`
	CreatedAt              time.Time      `json:"created_at"`
}

// Validate ensures the assessment entity is in a valid state.
func (a *SolarAssessment) Validate() error {
	if a.ScanID == 0 {
		return ErrParentMissing
	}
	if a.SecurityScore < 0 || a.SecurityScore > 100 {
		return ErrInvalidSecurityScore
	}
	if a.NetworkIsolationScore < 0 || a.NetworkIsolationScore > 10 {
		return ErrInvalidIsolationScore
	}
	if a.AuthenticationStrength != "" && !a.AuthenticationStrength.IsValid() {
		return ErrInvalidGrade
	}
	if a.EncryptionStatus != "" && !a.EncryptionStatus.IsValid() {
		return ErrInvalidGrade
	}
	if a.FirmwareStatus != "" && !a.FirmwareStatus.IsValid() {
		return ErrInvalidFirmwareState
	}
	return nil
}
