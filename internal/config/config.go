package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Addr          string
	DBDriver      string
	DBDSN         string
	ThreatDBPath  string
	ReportsDir    string
	Debug         bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and environment variables
	cfg.Addr = getEnv("SUNSCAN_ADDR", ":8080")
	cfg.DBDriver = getEnv("SUNSCAN_DB_DRIVER", "sqlite")
	cfg.DBDSN = getEnv("SUNSCAN_DB_DSN", defaultDataPath("sunscan.db"))
	cfg.ThreatDBPath = getEnv("SUNSCAN_THREAT_DB", defaultDataPath("threats.db"))
	cfg.ReportsDir = getEnv("SUNSCAN_REPORTS_DIR", defaultDataPath("reports"))
	cfg.AdminUsername = getEnv("SUNSCAN_ADMIN_USER", "admin")
	cfg.AdminEmail = getEnv("SUNSCAN_ADMIN_EMAIL", "admin@localhost")
	cfg.AdminPassword = getEnv("SUNSCAN_ADMIN_PASSWORD", "changeit")

	// Command line flags (override env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Database driver (sqlite or mysql)")
	flag.StringVar(&cfg.DBDSN, "db", cfg.DBDSN, "Database DSN (file path for sqlite)")
	flag.StringVar(&cfg.ThreatDBPath, "threat-db", cfg.ThreatDBPath, "Path to the threat intelligence database")
	flag.StringVar(&cfg.ReportsDir, "reports-dir", cfg.ReportsDir, "Directory for generated report artifacts")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// defaultDataPath places application data under ~/.sunscan, falling back to
// the working directory when the home directory is unavailable.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: could not get user home directory, using current dir: %v", err)
		return name
	}

	dir := filepath.Join(home, ".sunscan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: could not create .sunscan directory, using current dir: %v", err)
		return name
	}

	return filepath.Join(dir, name)
}
