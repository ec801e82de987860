package domain

import (
	"errors"
	"time"
)

// ReportType selects which view of a finished scan the artifact covers.
type ReportType string

const (
	ReportTypeFull          ReportType = "full"
	ReportTypeExecutive     ReportType = "executive"
	ReportTypeVulnerability ReportType = "vulnerability"
	ReportTypeSolar         ReportType = "solar"
)

// IsValid checks if the report type is recognized.
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeFull, ReportTypeExecutive, ReportTypeVulnerability, ReportTypeSolar:
		return true
	}
	return false
}

var ErrInvalidReportType = errors.New("invalid report type")

// Report records a generated artifact for a finished scan. Rendering is the
// generator's concern; only the artifact path is persisted here.
type Report struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	ScanID     uint       `json:"scan_id"`
	ReportType ReportType `json:"report_type"`
	FilePath   string     `json:"file_path"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Validate ensures the report entity is in a valid state.
func (r *Report) Validate() error {
	if r.UserID == 0 || r.ScanID == 0 {
		return ErrParentMissing
	}
	if !r.ReportType.IsValid() {
		return ErrInvalidReportType
	}
	return nil
}
