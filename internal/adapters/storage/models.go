package storage

import "time"

// GORM models mirror the domain entities with surrogate integer keys and the
// ownership graph enforced by the database: User->Scan->Device->Vulnerability,
// Scan->SolarAssessment (one-to-one), User/Scan->Report. Deleting a scan
// cascades down its subtree; deleting a user is blocked while rows reference it.

// UserModel is the GORM model for accounts.
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:256;not null"`
	Role         string `gorm:"size:20;default:operator"`
	CompanyName  string `gorm:"size:120"`
	Address      string `gorm:"size:200"`
	Phone        string `gorm:"size:20"`
	CreatedAt    time.Time

	Scans         []ScanModel         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Reports       []ReportModel       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	FirewallRules []FirewallRuleModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (UserModel) TableName() string { return "users" }

// ScanModel is the GORM model for scans.
type ScanModel struct {
	ID                uint   `gorm:"primaryKey"`
	UserID            uint   `gorm:"index;not null"`
	Name              string `gorm:"size:100;not null"`
	NetworkRange      string `gorm:"size:100;not null"`
	ScanType          string `gorm:"size:20;default:standard"`
	Status            string `gorm:"size:20;index;default:pending"`
	TotalDevices      int    `gorm:"default:0"`
	VulnerableDevices int    `gorm:"default:0"`
	StartTime         time.Time
	EndTime           *time.Time

	Devices         []DeviceModel         `gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`
	Reports         []ReportModel         `gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`
	SolarAssessment *SolarAssessmentModel `gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`
}

func (ScanModel) TableName() string { return "scans" }

// DeviceModel is the GORM model for discovered hosts.
type DeviceModel struct {
	ID              uint   `gorm:"primaryKey"`
	ScanID          uint   `gorm:"index;not null"`
	IPAddress       string `gorm:"size:45;not null"`
	MACAddress      string `gorm:"size:17"`
	Hostname        string `gorm:"size:100"`
	DeviceType      string `gorm:"size:50;index"`
	Manufacturer    string `gorm:"size:100"`
	OS              string `gorm:"size:100"`
	FirmwareVersion string `gorm:"size:50"`
	IsVulnerable    bool   `gorm:"default:false"`
	IsSolarDevice   bool   `gorm:"default:false"`
	OpenPorts       string `gorm:"type:text"` // JSON encoded []domain.PortService
	LastSeen        time.Time

	Vulnerabilities []VulnerabilityModel `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
}

func (DeviceModel) TableName() string { return "devices" }

// VulnerabilityModel is the GORM model for findings.
type VulnerabilityModel struct {
	ID                uint   `gorm:"primaryKey"`
	DeviceID          uint   `gorm:"index;not null"`
	Name              string `gorm:"size:100;not null"`
	Description       string `gorm:"type:text"`
	Severity          string `gorm:"size:20;index"`
	CVSSScore         float64
	CVEID             string `gorm:"size:20"`
	AffectedComponent string `gorm:"size:100"`
	Remediation       string `gorm:"type:text"`
	DiscoveredAt      time.Time
	Status            string `gorm:"size:20;default:open"`
}

func (VulnerabilityModel) TableName() string { return "vulnerabilities" }

// ReportModel is the GORM model for report records.
type ReportModel struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	ScanID     uint   `gorm:"index;not null"`
	ReportType string `gorm:"size:20;default:full"`
	FilePath   string `gorm:"size:255"`
	CreatedAt  time.Time
}

func (ReportModel) TableName() string { return "reports" }

// FirewallRuleModel is the GORM model for packet-filtering policies.
type FirewallRuleModel struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	Name          string `gorm:"size:100;not null"`
	Description   string `gorm:"type:text"`
	SourceIP      string `gorm:"size:100"`
	DestinationIP string `gorm:"size:100"`
	Protocol      string `gorm:"size:10"`
	PortRange     string `gorm:"size:50"`
	Action        string `gorm:"size:10"`
	Priority      int    `gorm:"index"`
	IsActive      bool   `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (FirewallRuleModel) TableName() string { return "firewall_rules" }

// SolarAssessmentModel is the GORM model for solar security assessments.
// The unique index on ScanID enforces the one-per-scan invariant at the
// storage layer.
type SolarAssessmentModel struct {
	ID                     uint `gorm:"primaryKey"`
	ScanID                 uint `gorm:"uniqueIndex;not null"`
	SecurityScore          int
	InverterVulns          string `gorm:"type:text"` // JSON encoded []domain.SolarFinding
	MonitoringVulns        string `gorm:"type:text"`
	ProtocolIssues         string `gorm:"type:text"`
	NetworkIsolationScore  int
	AuthenticationStrength string `gorm:"size:20"`
	EncryptionStatus       string `gorm:"size:20"`
	FirmwareStatus         string `gorm:"size:20"`
	Recommendations        string `gorm:"type:text"` // JSON encoded []string
	CreatedAt              time.Time
}

func (SolarAssessmentModel) TableName() string { return "solar_assessments" }
