package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansStarted counts scans created, labeled by scan type
	ScansStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "scans_total",
			Help:      "Total number of scans created",
		},
		[]string{"type"},
	)

	// ScanTransitions counts lifecycle transitions, labeled by target status
	ScanTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "scan_transitions_total",
			Help:      "Total number of scan status transitions",
		},
		[]string{"status"},
	)

	// DevicesRecorded counts hosts persisted during scans
	DevicesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "devices_recorded_total",
			Help:      "Total number of devices recorded across all scans",
		},
	)

	// VulnerabilitiesRecorded counts findings persisted, labeled by severity
	VulnerabilitiesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "vulnerabilities_recorded_total",
			Help:      "Total number of vulnerability findings recorded",
		},
		[]string{"severity"},
	)

	// ReportsRegistered counts report records created, labeled by type
	ReportsRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "reports_registered_total",
			Help:      "Total number of report records registered",
		},
		[]string{"type"},
	)

	// LoginAttempts counts authentication attempts, labeled by outcome
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sunscan",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ScansStarted)
		prometheus.DefaultRegisterer.Register(ScanTransitions)
		prometheus.DefaultRegisterer.Register(DevicesRecorded)
		prometheus.DefaultRegisterer.Register(VulnerabilitiesRecorded)
		prometheus.DefaultRegisterer.Register(ReportsRegistered)
		prometheus.DefaultRegisterer.Register(LoginAttempts)
	})
}
