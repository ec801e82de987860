package storage

import (
	"encoding/json"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// The JSON text columns (open ports, solar findings, recommendations) are
// encoded and decoded only here, at the storage boundary. The domain carries
// typed slices.

func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalPorts(raw string) []domain.PortService {
	if raw == "" {
		return nil
	}
	var ports []domain.PortService
	_ = json.Unmarshal([]byte(raw), &ports)
	return ports
}

func unmarshalFindings(raw string) []domain.SolarFinding {
	if raw == "" {
		return nil
	}
	var findings []domain.SolarFinding
	_ = json.Unmarshal([]byte(raw), &findings)
	return findings
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func toUserModel(u *domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CompanyName:  u.CompanyName,
		Address:      u.Address,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
	}
}

func toUserDomain(m UserModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CompanyName:  m.CompanyName,
		Address:      m.Address,
		Phone:        m.Phone,
		CreatedAt:    m.CreatedAt,
	}
}

func toScanModel(s *domain.Scan) ScanModel {
	return ScanModel{
		ID:                s.ID,
		UserID:            s.UserID,
		Name:              s.Name,
		NetworkRange:      s.NetworkRange,
		ScanType:          string(s.ScanType),
		Status:            string(s.Status),
		TotalDevices:      s.TotalDevices,
		VulnerableDevices: s.VulnerableDevices,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
	}
}

func toScanDomain(m ScanModel) *domain.Scan {
	return &domain.Scan{
		ID:                m.ID,
		UserID:            m.UserID,
		Name:              m.Name,
		NetworkRange:      m.NetworkRange,
		ScanType:          domain.ScanType(m.ScanType),
		Status:            domain.ScanStatus(m.Status),
		TotalDevices:      m.TotalDevices,
		VulnerableDevices: m.VulnerableDevices,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
	}
}

func toDeviceModel(d *domain.Device) DeviceModel {
	return DeviceModel{
		ID:              d.ID,
		ScanID:          d.ScanID,
		IPAddress:       d.IPAddress,
		MACAddress:      d.MACAddress,
		Hostname:        d.Hostname,
		DeviceType:      d.DeviceType,
		Manufacturer:    d.Manufacturer,
		OS:              d.OS,
		FirmwareVersion: d.FirmwareVersion,
		IsVulnerable:    d.IsVulnerable,
		IsSolarDevice:   d.IsSolarDevice,
		OpenPorts:       marshalJSON(d.OpenPorts),
		LastSeen:        d.LastSeen,
	}
}

func toDeviceDomain(m DeviceModel) *domain.Device {
	return &domain.Device{
		ID:              m.ID,
		ScanID:          m.ScanID,
		IPAddress:       m.IPAddress,
		MACAddress:      m.MACAddress,
		Hostname:        m.Hostname,
		DeviceType:      m.DeviceType,
		Manufacturer:    m.Manufacturer,
		OS:              m.OS,
		FirmwareVersion: m.FirmwareVersion,
		IsVulnerable:    m.IsVulnerable,
		IsSolarDevice:   m.IsSolarDevice,
		OpenPorts:       unmarshalPorts(m.OpenPorts),
		LastSeen:        m.LastSeen,
	}
}

func toVulnModel(v *domain.Vulnerability) VulnerabilityModel {
	return VulnerabilityModel{
		ID:                v.ID,
		DeviceID:          v.DeviceID,
		Name:              v.Name,
		Description:       v.Description,
		Severity:          string(v.Severity),
		CVSSScore:         v.CVSSScore,
		CVEID:             v.CVEID,
		AffectedComponent: v.AffectedComponent,
		Remediation:       v.Remediation,
		DiscoveredAt:      v.DiscoveredAt,
		Status:            string(v.Status),
	}
}

func toVulnDomain(m VulnerabilityModel) *domain.Vulnerability {
	return &domain.Vulnerability{
		ID:                m.ID,
		DeviceID:          m.DeviceID,
		Name:              m.Name,
		Description:       m.Description,
		Severity:          domain.Severity(m.Severity),
		CVSSScore:         m.CVSSScore,
		CVEID:             m.CVEID,
		AffectedComponent: m.AffectedComponent,
		Remediation:       m.Remediation,
		DiscoveredAt:      m.DiscoveredAt,
		Status:            domain.VulnStatus(m.Status),
	}
}

func toReportModel(r *domain.Report) ReportModel {
	return ReportModel{
		ID:         r.ID,
		UserID:     r.UserID,
		ScanID:     r.ScanID,
		ReportType: string(r.ReportType),
		FilePath:   r.FilePath,
		CreatedAt:  r.CreatedAt,
	}
}

func toReportDomain(m ReportModel) *domain.Report {
	return &domain.Report{
		ID:         m.ID,
		UserID:     m.UserID,
		ScanID:     m.ScanID,
		ReportType: domain.ReportType(m.ReportType),
		FilePath:   m.FilePath,
		CreatedAt:  m.CreatedAt,
	}
}

func toRuleModel(r *domain.FirewallRule) FirewallRuleModel {
	return FirewallRuleModel{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Description:   r.Description,
		SourceIP:      r.SourceIP,
		DestinationIP: r.DestinationIP,
		Protocol:      string(r.Protocol),
		PortRange:     r.PortRange,
		Action:        string(r.Action),
		Priority:      r.Priority,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toRuleDomain(m FirewallRuleModel) *domain.FirewallRule {
	return &domain.FirewallRule{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Description:   m.Description,
		SourceIP:      m.SourceIP,
		DestinationIP: m.DestinationIP,
		Protocol:      domain.Protocol(m.Protocol),
		PortRange:     m.PortRange,
		Action:        domain.RuleAction(m.Action),
		Priority:      m.Priority,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toAssessmentModel(a *domain.SolarAssessment) SolarAssessmentModel {
	return SolarAssessmentModel{
		ID:                     a.ID,
		ScanID:                 a.ScanID,
		SecurityScore:          a.SecurityScore,
		InverterVulns:          marshalJSON(a.InverterVulns),
		MonitoringVulns:        marshalJSON(a.MonitoringVulns),
		ProtocolIssues:         marshalJSON(a.ProtocolIssues),
		NetworkIsolationScore:  a.NetworkIsolationScore,
		AuthenticationStrength: string(a.AuthenticationStrength),
		EncryptionStatus:       string(a.EncryptionStatus),
		FirmwareStatus:         string(a.FirmwareStatus),
		Recommendations:        marshalJSON(a.Recommendations),
		CreatedAt:              a.CreatedAt,
	}
}

func toAssessmentDomain(m SolarAssessmentModel) *domain.SolarAssessment {
	return &domain.SolarAssessment{
		ID:                     m.ID,
		ScanID:                 m.ScanID,
		SecurityScore:          m.SecurityScore,
		InverterVulns:          unmarshalFindings(m.InverterVulns),
		MonitoringVulns:        unmarshalFindings(m.MonitoringVulns),
		ProtocolIssues:         unmarshalFindings(m.ProtocolIssues),
		NetworkIsolationScore:  m.NetworkIsolationScore,
		AuthenticationStrength: domain.Grade(m.AuthenticationStrength),
		EncryptionStatus:       domain.Grade(m.EncryptionStatus),
		FirmwareStatus:         domain.FirmwareState(m.FirmwareStatus),
		Recommendations:        unmarshalStrings(m.Recommendations),
		CreatedAt:              m.CreatedAt,
	}
}
