package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunscan-sec/sunscan/internal/adapters/storage"
	"github.com/sunscan-sec/sunscan/internal/adapters/threatintel"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/services/auth"
	"github.com/sunscan-sec/sunscan/internal/core/services/reporting"
	"github.com/sunscan-sec/sunscan/internal/core/services/scan"
)

// apiEnv is a full stack (in-memory store, real services, real router)
// driven through httptest.
type apiEnv struct {
	handler http.Handler
	store   *storage.Store
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()

	store, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	threatRepo, err := threatintel.NewSQLiteRepository(filepath.Join(t.TempDir(), "threats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { threatRepo.Close() })

	userRepo := storage.NewUserRepo(store)
	scanRepo := storage.NewScanRepo(store)

	authSvc := auth.NewAuthService(userRepo)
	scanSvc := scan.NewService(
		scanRepo,
		storage.NewDeviceRepo(store),
		storage.NewVulnerabilityRepo(store),
		storage.NewSolarRepo(store),
	)

	server := NewServer(":0", Deps{
		Auth:      authSvc,
		Scans:     scanSvc,
		Reporting: reporting.NewService(storage.NewReportRepo(store), scanRepo, t.TempDir()),
		Users:     userRepo,
		Devices:   storage.NewDeviceRepo(store),
		Vulns:     storage.NewVulnerabilityRepo(store),
		Firewall:  storage.NewFirewallRepo(store),
		Solar:     storage.NewSolarRepo(store),
		Threats:   threatRepo,
	})
	scanSvc.SetEventListener(server.Hub)

	return &apiEnv{handler: SetupRoutes(server), store: store}
}

// seedAccount creates a user with the given role directly in the store and
// returns a bearer token for it.
func (e *apiEnv) seedAccount(t *testing.T, username string, role domain.Role) string {
	t.Helper()
	u, err := domain.NewUser(username, username+"@example.com", "s3cret")
	require.NoError(t, err)
	u.Role = role
	require.NoError(t, storage.NewUserRepo(e.store).Create(context.Background(), u))
	return e.login(t, username, "s3cret")
}

func (e *apiEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	env := setupAPI(t)

	resp := env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/register", "", domain.Registration{
		Username: "carol", Email: "carol@example.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.NotContains(t, resp.Body.String(), "pw", "plaintext must never leave the server")
	assert.NotContains(t, resp.Body.String(), "password_hash")

	resp = env.do(t, http.MethodPost, "/api/register", "", domain.Registration{
		Username: "carol", Email: "other@example.com", Password: "pw",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "carol", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	token := env.login(t, "carol", "pw")
	resp = env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var me domain.User
	decodeJSON(t, resp, &me)
	assert.Equal(t, "carol", me.Username)
	assert.Equal(t, domain.RoleOperator, me.Role)

	resp = env.do(t, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestScanLifecycleAPI(t *testing.T) {
	env := setupAPI(t)
	token := env.seedAccount(t, "operator", domain.RoleOperator)

	resp := env.do(t, http.MethodPost, "/api/scans", token, map[string]string{
		"name": "roof array", "network_range": "10.0.0.0/24", "scan_type": "solar_focused",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created domain.Scan
	decodeJSON(t, resp, &created)
	assert.Equal(t, domain.ScanStatusPending, created.Status)
	scanPath := fmt.Sprintf("/api/scans/%d", created.ID)

	// Devices cannot be recorded before the scan runs.
	resp = env.do(t, http.MethodPost, scanPath+"/devices", token, domain.Device{IPAddress: "10.0.0.5"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = env.do(t, http.MethodPost, scanPath+"/start", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodPost, scanPath+"/devices", token, domain.Device{
		IPAddress: "10.0.0.5", DeviceType: "solar", IsSolarDevice: true,
		OpenPorts: []domain.PortService{{Port: 502, Protocol: "tcp", Service: "modbus"}},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var device domain.Device
	decodeJSON(t, resp, &device)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/devices/%d/vulnerabilities", device.ID), token, domain.Vulnerability{
		Name: "default credentials", Severity: domain.SeverityCritical, CVSSScore: 9.8,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// One assessment per scan.
	assessment := domain.SolarAssessment{SecurityScore: 42, NetworkIsolationScore: 3}
	resp = env.do(t, http.MethodPost, scanPath+"/solar", token, assessment)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = env.do(t, http.MethodPost, scanPath+"/solar", token, assessment)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = env.do(t, http.MethodPost, scanPath+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var completed domain.Scan
	decodeJSON(t, resp, &completed)
	assert.True(t, completed.Terminal())
	assert.NotNil(t, completed.EndTime)
	assert.Equal(t, 1, completed.TotalDevices)
	assert.Equal(t, 1, completed.VulnerableDevices)

	// Terminal scans accept no further findings or transitions.
	resp = env.do(t, http.MethodPost, scanPath+"/devices", token, domain.Device{IPAddress: "10.0.0.9"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	resp = env.do(t, http.MethodPost, scanPath+"/start", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/reports", token, map[string]interface{}{
		"scan_id": created.ID, "report_type": "solar",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// Deleting the scan cascades to everything it owns.
	resp = env.do(t, http.MethodDelete, scanPath, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/devices/%d", device.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = env.do(t, http.MethodGet, scanPath+"/solar", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRoleEnforcement(t *testing.T) {
	env := setupAPI(t)
	viewer := env.seedAccount(t, "viewer", domain.RoleViewer)
	admin := env.seedAccount(t, "root", domain.RoleAdmin)

	resp := env.do(t, http.MethodPost, "/api/scans", viewer, map[string]string{
		"name": "nope", "network_range": "10.0.0.0/24",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/scans", viewer, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/users", viewer, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var users []domain.User
	decodeJSON(t, resp, &users)
	assert.Len(t, users, 2)
}

func TestUserDeleteBlockedWhileReferenced(t *testing.T) {
	env := setupAPI(t)
	admin := env.seedAccount(t, "root", domain.RoleAdmin)
	operator := env.seedAccount(t, "operator", domain.RoleOperator)

	resp := env.do(t, http.MethodPost, "/api/scans", operator, map[string]string{
		"name": "plant sweep", "network_range": "192.168.1.0/24",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created domain.Scan
	decodeJSON(t, resp, &created)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.UserID), admin, nil)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/scans/%d", created.ID), operator, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.UserID), admin, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestFirewallRulesAPI(t *testing.T) {
	env := setupAPI(t)
	token := env.seedAccount(t, "operator", domain.RoleOperator)

	mkRule := func(name string, priority int) domain.FirewallRule {
		return domain.FirewallRule{
			Name:     name,
			Protocol: domain.ProtocolTCP,
			Action:   domain.ActionDeny,
			Priority: priority,
			IsActive: true,
		}
	}

	resp := env.do(t, http.MethodPost, "/api/firewall/rules", token, mkRule("block modbus", 20))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = env.do(t, http.MethodPost, "/api/firewall/rules", token, mkRule("block telnet", 5))
	require.Equal(t, http.StatusCreated, resp.Code)

	var first domain.FirewallRule
	decodeJSON(t, resp, &first)

	resp = env.do(t, http.MethodPost, "/api/firewall/rules", token, domain.FirewallRule{
		Name: "bad", Protocol: "gre", Action: domain.ActionAllow,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Lowest priority value is evaluated, and therefore listed, first.
	resp = env.do(t, http.MethodGet, "/api/firewall/rules", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var rules []domain.FirewallRule
	decodeJSON(t, resp, &rules)
	require.Len(t, rules, 2)
	assert.Equal(t, "block telnet", rules[0].Name)

	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/firewall/rules/%d/active", first.ID), token, map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/firewall/rules/%d", first.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var toggled domain.FirewallRule
	decodeJSON(t, resp, &toggled)
	assert.False(t, toggled.IsActive)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/firewall/rules/%d", first.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestThreatFeedAPI(t *testing.T) {
	env := setupAPI(t)
	admin := env.seedAccount(t, "root", domain.RoleAdmin)
	viewer := env.seedAccount(t, "viewer", domain.RoleViewer)

	rec := domain.ThreatRecord{
		Title:         "Inverter RCE campaign",
		Description:   "Exploitation of exposed inverter web panels",
		ThreatType:    "exploit",
		Severity:      domain.SeverityCritical,
		Source:        "feed-test",
		SolarRelevant: true,
	}
	resp := env.do(t, http.MethodPost, "/api/threats", admin, rec)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// Feed writes are admin-only.
	resp = env.do(t, http.MethodPost, "/api/threats", viewer, rec)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/threats?solar=true", viewer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var records []domain.ThreatRecord
	decodeJSON(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, rec.Title, records[0].Title)

	resp = env.do(t, http.MethodGet, "/api/threats/search?q=inverter", viewer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeJSON(t, resp, &records)
	assert.Len(t, records, 1)

	resp = env.do(t, http.MethodGet, "/api/threats/status", viewer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "total_records")
}
