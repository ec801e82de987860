package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// setupStore creates an in-memory store used for testing.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, username, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, email, "s3cret")
	require.NoError(t, err)
	require.NoError(t, NewUserRepo(s).Create(context.Background(), u))
	return u
}

func seedScan(t *testing.T, s *Store, userID uint) *domain.Scan {
	t.Helper()
	scan, err := domain.NewScan(userID, "plant sweep", "10.0.0.0/24", domain.ScanTypeSolarFocused)
	require.NoError(t, err)
	require.NoError(t, NewScanRepo(s).Create(context.Background(), scan))
	return scan
}

func seedDevice(t *testing.T, s *Store, scanID uint, ip string) *domain.Device {
	t.Helper()
	dev := &domain.Device{ScanID: scanID, IPAddress: ip, LastSeen: time.Now().UTC()}
	require.NoError(t, NewDeviceRepo(s).Create(context.Background(), dev))
	return dev
}

func TestUserUniqueness(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	repo := NewUserRepo(s)

	seedUser(t, s, "alice", "alice@example.com")

	dup, err := domain.NewUser("alice", "other@example.com", "pw")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicate)

	dup, err = domain.NewUser("someone", "alice@example.com", "pw")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicate)
}

func TestForeignKeyEnforcement(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := NewDeviceRepo(s).Create(ctx, &domain.Device{ScanID: 999, IPAddress: "10.0.0.1"})
	assert.ErrorIs(t, err, domain.ErrParentMissing)

	err = NewVulnerabilityRepo(s).Create(ctx, &domain.Vulnerability{
		DeviceID: 999, Name: "x", Severity: domain.SeverityLow, Status: domain.VulnStatusOpen,
	})
	assert.ErrorIs(t, err, domain.ErrParentMissing)

	err = NewReportRepo(s).Create(ctx, &domain.Report{UserID: 999, ScanID: 999, ReportType: domain.ReportTypeFull})
	assert.ErrorIs(t, err, domain.ErrParentMissing)

	err = NewSolarRepo(s).Create(ctx, &domain.SolarAssessment{ScanID: 999, SecurityScore: 50})
	assert.ErrorIs(t, err, domain.ErrParentMissing)

	err = NewScanRepo(s).Create(ctx, &domain.Scan{
		UserID: 999, Name: "x", NetworkRange: "10.0.0.0/8",
		ScanType: domain.ScanTypeStandard, Status: domain.ScanStatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrParentMissing)
}

func TestScanDelete_CascadesSubtree(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "owner", "owner@example.com")
	scan := seedScan(t, s, user.ID)
	other := seedScan(t, s, user.ID)

	dev := seedDevice(t, s, scan.ID, "10.0.0.5")
	keptDev := seedDevice(t, s, other.ID, "10.0.0.6")

	vulnRepo := NewVulnerabilityRepo(s)
	vuln := &domain.Vulnerability{
		DeviceID: dev.ID, Name: "Default credentials",
		Severity: domain.SeverityHigh, Status: domain.VulnStatusOpen, CVSSScore: 8.1,
	}
	require.NoError(t, vulnRepo.Create(ctx, vuln))

	solarRepo := NewSolarRepo(s)
	require.NoError(t, solarRepo.Create(ctx, &domain.SolarAssessment{ScanID: scan.ID, SecurityScore: 40}))

	reportRepo := NewReportRepo(s)
	require.NoError(t, reportRepo.Create(ctx, &domain.Report{
		UserID: user.ID, ScanID: scan.ID, ReportType: domain.ReportTypeSolar, FilePath: "/tmp/r.pdf",
	}))

	// Delete the scan; the whole subtree must go with it.
	require.NoError(t, NewScanRepo(s).Delete(ctx, scan.ID))

	_, err := NewDeviceRepo(s).GetByID(ctx, dev.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = vulnRepo.GetByID(ctx, vuln.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = solarRepo.GetByScan(ctx, scan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	reports, err := reportRepo.ListByScan(ctx, scan.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)

	// The owner and the sibling scan are untouched.
	_, err = NewUserRepo(s).GetByID(ctx, user.ID)
	assert.NoError(t, err)
	_, err = NewScanRepo(s).GetByID(ctx, other.ID)
	assert.NoError(t, err)
	_, err = NewDeviceRepo(s).GetByID(ctx, keptDev.ID)
	assert.NoError(t, err)
}

func TestUserDelete_BlockedWhileReferenced(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	userRepo := NewUserRepo(s)

	user := seedUser(t, s, "busy", "busy@example.com")
	seedScan(t, s, user.ID)

	assert.ErrorIs(t, userRepo.Delete(ctx, user.ID), domain.ErrInUse)

	idle := seedUser(t, s, "idle", "idle@example.com")
	assert.NoError(t, userRepo.Delete(ctx, idle.ID))
	assert.ErrorIs(t, userRepo.Delete(ctx, idle.ID), domain.ErrNotFound)
}

func TestSolarAssessment_OnePerScan(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "solar", "solar@example.com")
	scan := seedScan(t, s, user.ID)

	repo := NewSolarRepo(s)
	first := &domain.SolarAssessment{ScanID: scan.ID, SecurityScore: 55, NetworkIsolationScore: 3}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.SolarAssessment{ScanID: scan.ID, SecurityScore: 80}
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrAssessmentExists)

	stored, err := repo.GetByScan(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.SecurityScore)
}

func TestOpenPorts_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "ports", "ports@example.com")
	scan := seedScan(t, s, user.ID)

	repo := NewDeviceRepo(s)
	dev := &domain.Device{
		ScanID:    scan.ID,
		IPAddress: "10.0.0.12",
		OpenPorts: []domain.PortService{
			{Port: 502, Protocol: "tcp", Service: "modbus"},
			{Port: 80, Protocol: "tcp", Service: "http", Banner: "lighttpd"},
		},
		LastSeen: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, dev))

	stored, err := repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, stored.OpenPorts, 2)
	assert.Equal(t, 502, stored.OpenPorts[0].Port)
	assert.Equal(t, "modbus", stored.OpenPorts[0].Service)
	assert.Equal(t, "lighttpd", stored.OpenPorts[1].Banner)
}

func TestSolarAssessment_FindingsRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "findings", "findings@example.com")
	scan := seedScan(t, s, user.ID)

	repo := NewSolarRepo(s)
	in := &domain.SolarAssessment{
		ScanID:        scan.ID,
		SecurityScore: 62,
		InverterVulns: []domain.SolarFinding{
			{Title: "Telnet enabled", Severity: domain.SeverityCritical, Component: "inverter"},
		},
		ProtocolIssues: []domain.SolarFinding{
			{Title: "Unencrypted Modbus", Severity: domain.SeverityHigh},
		},
		NetworkIsolationScore:  4,
		AuthenticationStrength: domain.GradeWeak,
		EncryptionStatus:       domain.GradeModerate,
		FirmwareStatus:         domain.FirmwareOutdated,
		Recommendations:        []string{"Disable telnet", "Segment the PV VLAN"},
	}
	require.NoError(t, repo.Create(ctx, in))

	out, err := repo.GetByScan(ctx, scan.ID)
	require.NoError(t, err)
	require.Len(t, out.InverterVulns, 1)
	assert.Equal(t, "Telnet enabled", out.InverterVulns[0].Title)
	assert.Empty(t, out.MonitoringVulns)
	require.Len(t, out.ProtocolIssues, 1)
	assert.Equal(t, domain.GradeWeak, out.AuthenticationStrength)
	assert.Equal(t, []string{"Disable telnet", "Segment the PV VLAN"}, out.Recommendations)
}

func TestDeviceFind_Filters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "filters", "filters@example.com")
	scan := seedScan(t, s, user.ID)

	repo := NewDeviceRepo(s)
	require.NoError(t, repo.Create(ctx, &domain.Device{ScanID: scan.ID, IPAddress: "10.0.0.1", DeviceType: "router"}))
	require.NoError(t, repo.Create(ctx, &domain.Device{ScanID: scan.ID, IPAddress: "10.0.0.2", DeviceType: "solar", IsSolarDevice: true}))
	require.NoError(t, repo.Create(ctx, &domain.Device{ScanID: scan.ID, IPAddress: "10.0.0.3", DeviceType: "iot", IsVulnerable: true}))

	all, err := repo.Find(ctx, domain.DeviceFilter{ScanID: scan.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	solar := true
	solarOnly, err := repo.Find(ctx, domain.DeviceFilter{ScanID: scan.ID, Solar: &solar})
	require.NoError(t, err)
	require.Len(t, solarOnly, 1)
	assert.Equal(t, "10.0.0.2", solarOnly[0].IPAddress)

	vulnerable := true
	vulnOnly, err := repo.Find(ctx, domain.DeviceFilter{ScanID: scan.ID, Vulnerable: &vulnerable})
	require.NoError(t, err)
	require.Len(t, vulnOnly, 1)
	assert.Equal(t, "10.0.0.3", vulnOnly[0].IPAddress)

	routers, err := repo.Find(ctx, domain.DeviceFilter{ScanID: scan.ID, DeviceType: "router"})
	require.NoError(t, err)
	assert.Len(t, routers, 1)
}

func TestMarkVulnerable_FlipsOnce(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "flip", "flip@example.com")
	scan := seedScan(t, s, user.ID)
	dev := seedDevice(t, s, scan.ID, "10.0.0.9")

	repo := NewDeviceRepo(s)
	flipped, err := repo.MarkVulnerable(ctx, dev.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkVulnerable(ctx, dev.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	_, err = repo.MarkVulnerable(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFirewallRules_PriorityOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "fw", "fw@example.com")
	repo := NewFirewallRepo(s)

	mk := func(name string, prio int) {
		require.NoError(t, repo.Create(ctx, &domain.FirewallRule{
			UserID: user.ID, Name: name, Protocol: domain.ProtocolTCP,
			Action: domain.ActionDeny, Priority: prio, IsActive: true,
		}))
	}
	mk("catch-all", 100)
	mk("block-mgmt", 1)
	mk("allow-lan", 10)

	rules, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "block-mgmt", rules[0].Name)
	assert.Equal(t, "allow-lan", rules[1].Name)
	assert.Equal(t, "catch-all", rules[2].Name)
}

func TestVulnerabilityUpdateStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "vuln", "vuln@example.com")
	scan := seedScan(t, s, user.ID)
	dev := seedDevice(t, s, scan.ID, "10.0.0.7")

	repo := NewVulnerabilityRepo(s)
	v := &domain.Vulnerability{
		DeviceID: dev.ID, Name: "Old firmware",
		Severity: domain.SeverityMedium, Status: domain.VulnStatusOpen, CVSSScore: 5.3,
	}
	require.NoError(t, repo.Create(ctx, v))

	require.NoError(t, repo.UpdateStatus(ctx, v.ID, domain.VulnStatusIgnored))
	stored, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VulnStatusIgnored, stored.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, v.ID, "wontfix"), domain.ErrInvalidVulnStatus)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 4242, domain.VulnStatusFixed), domain.ErrNotFound)
}
