package ports

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// UserRepository defines the persistence layer for user accounts.
type UserRepository interface {
	// Create persists a new user. Username/email collisions surface as
	// domain.ErrDuplicate.
	Create(ctx context.Context, user *domain.User) error
	// Update persists changes to an existing user.
	Update(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by their ID.
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
	// Delete removes a user. It is blocked (domain.ErrInUse) while scans,
	// reports, or firewall rules still reference the user.
	Delete(ctx context.Context, id uint) error
}

// ScanRepository defines the persistence layer for scans.
type ScanRepository interface {
	Create(ctx context.Context, scan *domain.Scan) error
	Update(ctx context.Context, scan *domain.Scan) error
	GetByID(ctx context.Context, id uint) (*domain.Scan, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Scan, error)
	// Delete removes the scan and cascades to its devices, their
	// vulnerabilities, its solar assessment, and its reports.
	Delete(ctx context.Context, id uint) error
}

// DeviceRepository defines the persistence layer for discovered hosts.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id uint) (*domain.Device, error)
	Find(ctx context.Context, filter domain.DeviceFilter) ([]domain.Device, error)
	// MarkVulnerable flags the device. Returns true if the flag flipped.
	MarkVulnerable(ctx context.Context, id uint) (bool, error)
}

// VulnerabilityRepository defines the persistence layer for findings.
type VulnerabilityRepository interface {
	Create(ctx context.Context, vuln *domain.Vulnerability) error
	GetByID(ctx context.Context, id uint) (*domain.Vulnerability, error)
	Find(ctx context.Context, filter domain.VulnerabilityFilter) ([]domain.Vulnerability, error)
	// UpdateStatus moves a finding through open/fixed/in_progress/ignored.
	UpdateStatus(ctx context.Context, id uint, status domain.VulnStatus) error
}

// ReportRepository defines the persistence layer for report records.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uint) (*domain.Report, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Report, error)
	ListByScan(ctx context.Context, scanID uint) ([]domain.Report, error)
	Delete(ctx context.Context, id uint) error
}

// FirewallRepository defines the persistence layer for firewall rules.
type FirewallRepository interface {
	Create(ctx context.Context, rule *domain.FirewallRule) error
	Update(ctx context.Context, rule *domain.FirewallRule) error
	GetByID(ctx context.Context, id uint) (*domain.FirewallRule, error)
	// ListByUser returns rules ordered by priority, lowest value first.
	ListByUser(ctx context.Context, userID uint) ([]domain.FirewallRule, error)
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

// SolarAssessmentRepository defines the persistence layer for solar
// assessments. A scan owns at most one.
type SolarAssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.SolarAssessment) error
	GetByScan(ctx context.Context, scanID uint) (*domain.SolarAssessment, error)
}

// ThreatRepository defines the persistence layer for the threat
// intelligence feed.
type ThreatRepository interface {
	// Upsert inserts the record or updates it when (title, source) matches.
	Upsert(ctx context.Context, rec domain.ThreatRecord) error
	GetByID(ctx context.Context, id int64) (*domain.ThreatRecord, error)
	Find(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatRecord, error)
	SearchByKeywords(ctx context.Context, keywords []string) ([]domain.ThreatRecord, error)
	TotalCount(ctx context.Context) (int, error)
	LastSync(ctx context.Context) (domain.ThreatSyncStatus, error)
	UpdateSyncStatus(ctx context.Context, status domain.ThreatSyncStatus) error
	Close() error
}
