package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sunscan-sec/sunscan/internal/adapters/storage"
	"github.com/sunscan-sec/sunscan/internal/adapters/threatintel"
	"github.com/sunscan-sec/sunscan/internal/adapters/web"
	"github.com/sunscan-sec/sunscan/internal/config"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/services/auth"
	"github.com/sunscan-sec/sunscan/internal/core/services/reporting"
	"github.com/sunscan-sec/sunscan/internal/core/services/scan"
	"github.com/sunscan-sec/sunscan/internal/telemetry"
)

// Application wires storage, services, and the web server. It acts as the
// facade for the entire system.
type Application struct {
	Config           *config.Config
	Store            *storage.Store
	ThreatRepo       *threatintel.SQLiteRepository
	AuthService      *auth.AuthService
	ScanService      *scan.Service
	ReportingService *reporting.Service
	WebServer        *web.Server
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	if err := app.ensureDirs(); err != nil {
		return err
	}

	store, err := storage.Open(app.Config.DBDriver, app.Config.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to init system storage: %w", err)
	}
	app.Store = store

	threatRepo, err := threatintel.NewSQLiteRepository(app.Config.ThreatDBPath)
	if err != nil {
		return fmt.Errorf("failed to init threat feed storage: %w", err)
	}
	app.ThreatRepo = threatRepo

	userRepo := storage.NewUserRepo(store)
	scanRepo := storage.NewScanRepo(store)
	solarRepo := storage.NewSolarRepo(store)

	app.AuthService = auth.NewAuthService(userRepo)
	app.ScanService = scan.NewService(
		scanRepo,
		storage.NewDeviceRepo(store),
		storage.NewVulnerabilityRepo(store),
		solarRepo,
	)
	app.ReportingService = reporting.NewService(storage.NewReportRepo(store), scanRepo, app.Config.ReportsDir)

	app.WebServer = web.NewServer(app.Config.Addr, web.Deps{
		Auth:      app.AuthService,
		Scans:     app.ScanService,
		Reporting: app.ReportingService,
		Users:     userRepo,
		Devices:   storage.NewDeviceRepo(store),
		Vulns:     storage.NewVulnerabilityRepo(store),
		Firewall:  storage.NewFirewallRepo(store),
		Solar:     solarRepo,
		Threats:   threatRepo,
	})

	// Scan lifecycle events flow out through the websocket hub.
	app.ScanService.SetEventListener(app.WebServer.Hub)

	if err := app.ensureDefaultAdmin(userRepo); err != nil {
		log.Printf("Warning: could not ensure default admin: %v", err)
	}

	return nil
}

func (app *Application) ensureDirs() error {
	dirs := []string{
		filepath.Dir(app.Config.ThreatDBPath),
		app.Config.ReportsDir,
	}
	if app.Config.DBDriver != storage.DriverMySQL {
		dirs = append(dirs, filepath.Dir(app.Config.DBDSN))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (app *Application) ensureDefaultAdmin(users *storage.UserRepo) error {
	ctx := context.Background()
	if _, err := users.GetByUsername(ctx, app.Config.AdminUsername); err == nil {
		return nil
	}

	log.Println("Provisioning default admin user...")
	admin, err := domain.NewUser(app.Config.AdminUsername, app.Config.AdminEmail, app.Config.AdminPassword)
	if err != nil {
		return err
	}
	admin.Role = domain.RoleAdmin
	return users.Create(ctx, admin)
}

// Run starts the application components and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("Starting sunscan components...")

	err := app.WebServer.Run(ctx)

	if cerr := app.cleanup(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (app *Application) cleanup() error {
	slog.Info("Cleaning up resources...")

	var firstErr error
	if app.ThreatRepo != nil {
		if err := app.ThreatRepo.Close(); err != nil {
			firstErr = err
		}
	}
	if app.Store != nil {
		if err := app.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
