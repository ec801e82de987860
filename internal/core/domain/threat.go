package domain

import (
	"errors"
	"time"
)

var ErrEmptyThreatTitle = errors.New("threat title cannot be empty")

// ThreatRecord is an independent intelligence feed entry describing an
// external threat. It has no relationship to scans or devices; feeds are
// synced and queried on their own lifecycle.
type ThreatRecord struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ThreatType      string    `json:"threat_type,omitempty"` // malware, ransomware, exploit, ...
	Severity        Severity  `json:"severity,omitempty"`
	CVEID           string    `json:"cve_id,omitempty"`
	PublishedDate   time.Time `json:"published_date"`
	Source          string    `json:"source,omitempty"`
	AffectedSystems string    `json:"affected_systems,omitempty"`
	Mitigation      string    `json:"mitigation,omitempty"`
	SolarRelevant   bool      `json:"is_relevant_to_solar"`
	IoTRelevant     bool      `json:"is_relevant_to_iot"`
}

// Validate ensures the threat record is in a valid state.
func (t *ThreatRecord) Validate() error {
	if t.Title == "" {
		return ErrEmptyThreatTitle
	}
	if t.Severity != "" && !t.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	return nil
}

// ThreatFilter narrows feed queries. Zero values are ignored.
type ThreatFilter struct {
	ThreatType    string
	Severity      Severity
	SolarRelevant *bool
	IoTRelevant   *bool
	Limit         int
}

// ThreatSyncStatus tracks the last feed synchronization.
type ThreatSyncStatus struct {
	LastSyncTime time.Time `json:"last_sync_time"`
	RecordCount  int       `json:"record_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
