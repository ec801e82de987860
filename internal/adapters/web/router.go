package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunscan-sec/sunscan/internal/adapters/web/middleware"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// SetupRoutes builds the API router. Public routes are login and register
// (both rate limited); everything else sits behind the auth middleware, with
// mutating routes additionally gated on the operator role and account
// administration on the admin role.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// Public API, rate limited per client address
	loginLimiter := middleware.NewRateLimiter(5, 1*time.Minute)
	limited := middleware.RateLimitMiddleware(loginLimiter)
	r.Handle("/api/login", limited(http.HandlerFunc(s.AuthHandler.HandleLogin))).Methods(http.MethodPost)
	r.Handle("/api/register", limited(http.HandlerFunc(s.AuthHandler.HandleRegister))).Methods(http.MethodPost)

	// Protected API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(s.AuthService))

	requireOperator := middleware.RoleMiddleware(domain.RoleOperator)
	requireAdmin := middleware.RoleMiddleware(domain.RoleAdmin)
	op := func(h http.HandlerFunc) http.Handler { return requireOperator(h) }
	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }

	api.HandleFunc("/logout", s.AuthHandler.HandleLogout).Methods(http.MethodPost)
	api.HandleFunc("/me", s.AuthHandler.HandleMe).Methods(http.MethodGet)

	// Account administration
	api.Handle("/users", admin(s.UserHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", admin(s.UserHandler.HandleGet)).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", admin(s.UserHandler.HandleDelete)).Methods(http.MethodDelete)

	// Scan lifecycle
	api.Handle("/scans", op(s.ScanHandler.HandleCreate)).Methods(http.MethodPost)
	api.HandleFunc("/scans", s.ScanHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/scans/{id:[0-9]+}", s.ScanHandler.HandleGet).Methods(http.MethodGet)
	api.Handle("/scans/{id:[0-9]+}", op(s.ScanHandler.HandleDelete)).Methods(http.MethodDelete)
	api.Handle("/scans/{id:[0-9]+}/start", op(s.ScanHandler.HandleStart)).Methods(http.MethodPost)
	api.Handle("/scans/{id:[0-9]+}/complete", op(s.ScanHandler.HandleComplete)).Methods(http.MethodPost)
	api.Handle("/scans/{id:[0-9]+}/fail", op(s.ScanHandler.HandleFail)).Methods(http.MethodPost)
	api.Handle("/scans/{id:[0-9]+}/devices", op(s.ScanHandler.HandleRecordDevice)).Methods(http.MethodPost)

	// Solar assessment, one per scan
	api.Handle("/scans/{id:[0-9]+}/solar", op(s.SolarHandler.HandleAttach)).Methods(http.MethodPost)
	api.HandleFunc("/scans/{id:[0-9]+}/solar", s.SolarHandler.HandleGet).Methods(http.MethodGet)

	// Discovered hosts
	api.HandleFunc("/devices", s.DeviceHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id:[0-9]+}", s.DeviceHandler.HandleGet).Methods(http.MethodGet)
	api.Handle("/devices/{id:[0-9]+}/vulnerabilities", op(s.VulnHandler.HandleRecord)).Methods(http.MethodPost)

	// Findings
	api.HandleFunc("/vulnerabilities", s.VulnHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/vulnerabilities/{id:[0-9]+}", s.VulnHandler.HandleGet).Methods(http.MethodGet)
	api.Handle("/vulnerabilities/{id:[0-9]+}/status", op(s.VulnHandler.HandleUpdateStatus)).Methods(http.MethodPut)

	// Reports
	api.Handle("/reports", op(s.ReportHandler.HandleRegister)).Methods(http.MethodPost)
	api.HandleFunc("/reports", s.ReportHandler.HandleList).Methods(http.MethodGet)
	api.Handle("/reports/{id:[0-9]+}", op(s.ReportHandler.HandleDelete)).Methods(http.MethodDelete)

	// Firewall rules
	api.Handle("/firewall/rules", op(s.FirewallHandler.HandleCreate)).Methods(http.MethodPost)
	api.HandleFunc("/firewall/rules", s.FirewallHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/firewall/rules/{id:[0-9]+}", s.FirewallHandler.HandleGet).Methods(http.MethodGet)
	api.Handle("/firewall/rules/{id:[0-9]+}", op(s.FirewallHandler.HandleUpdate)).Methods(http.MethodPut)
	api.Handle("/firewall/rules/{id:[0-9]+}", op(s.FirewallHandler.HandleDelete)).Methods(http.MethodDelete)
	api.Handle("/firewall/rules/{id:[0-9]+}/active", op(s.FirewallHandler.HandleSetActive)).Methods(http.MethodPut)

	// Threat intelligence feed
	api.HandleFunc("/threats", s.ThreatHandler.HandleList).Methods(http.MethodGet)
	api.Handle("/threats", admin(s.ThreatHandler.HandleUpsert)).Methods(http.MethodPost)
	api.HandleFunc("/threats/search", s.ThreatHandler.HandleSearch).Methods(http.MethodGet)
	api.HandleFunc("/threats/status", s.ThreatHandler.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/threats/{id:[0-9]+}", s.ThreatHandler.HandleGet).Methods(http.MethodGet)

	// WebSocket endpoint (protected)
	api.HandleFunc("/ws", s.Hub.HandleWebSocket)

	// Metrics endpoint (protected)
	api.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
