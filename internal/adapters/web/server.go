package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sunscan-sec/sunscan/internal/adapters/web/handlers"
	"github.com/sunscan-sec/sunscan/internal/adapters/web/websocket"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"github.com/sunscan-sec/sunscan/internal/core/services/reporting"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr        string
	AuthService ports.AuthService
	Hub         *websocket.Hub

	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	ScanHandler     *handlers.ScanHandler
	DeviceHandler   *handlers.DeviceHandler
	VulnHandler     *handlers.VulnerabilityHandler
	ReportHandler   *handlers.ReportHandler
	FirewallHandler *handlers.FirewallHandler
	ThreatHandler   *handlers.ThreatHandler
	SolarHandler    *handlers.SolarHandler

	srv *http.Server
}

// Deps carries everything the server's handlers consume.
type Deps struct {
	Auth      ports.AuthService
	Scans     ports.ScanService
	Reporting *reporting.Service
	Users     ports.UserRepository
	Devices   ports.DeviceRepository
	Vulns     ports.VulnerabilityRepository
	Firewall  ports.FirewallRepository
	Solar     ports.SolarAssessmentRepository
	Threats   ports.ThreatRepository
}

// NewServer creates a web server with its handlers and websocket hub.
func NewServer(addr string, deps Deps) *Server {
	return &Server{
		Addr:        addr,
		AuthService: deps.Auth,
		Hub:         websocket.NewHub(),

		AuthHandler:     handlers.NewAuthHandler(deps.Auth),
		UserHandler:     handlers.NewUserHandler(deps.Users),
		ScanHandler:     handlers.NewScanHandler(deps.Scans),
		DeviceHandler:   handlers.NewDeviceHandler(deps.Devices),
		VulnHandler:     handlers.NewVulnerabilityHandler(deps.Scans, deps.Vulns),
		ReportHandler:   handlers.NewReportHandler(deps.Reporting),
		FirewallHandler: handlers.NewFirewallHandler(deps.Firewall),
		ThreatHandler:   handlers.NewThreatHandler(deps.Threats),
		SolarHandler:    handlers.NewSolarHandler(deps.Scans, deps.Solar),
	}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "sunscan-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Println("Web server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
