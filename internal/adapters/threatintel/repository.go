package threatintel

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRepository implements ports.ThreatRepository using SQLite. The
// threat feed lives in its own database file, separate from the scan
// store, so feed syncs never contend with scan writes.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ThreatRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the threat feed database at
// dbPath and ensures the schema exists.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

const threatColumns = `id, title, description, threat_type, severity, cve_id,
	published_date, source, affected_systems, mitigation,
	is_relevant_to_solar, is_relevant_to_iot`

// Upsert inserts the record, or updates it when a record with the same
// title and source already exists.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec domain.ThreatRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO threat_records (
			title, description, threat_type, severity, cve_id,
			published_date, source, affected_systems, mitigation,
			is_relevant_to_solar, is_relevant_to_iot
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(title, source) DO UPDATE SET
			description = excluded.description,
			threat_type = excluded.threat_type,
			severity = excluded.severity,
			cve_id = excluded.cve_id,
			published_date = excluded.published_date,
			affected_systems = excluded.affected_systems,
			mitigation = excluded.mitigation,
			is_relevant_to_solar = excluded.is_relevant_to_solar,
			is_relevant_to_iot = excluded.is_relevant_to_iot,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.Title, rec.Description, rec.ThreatType, string(rec.Severity), rec.CVEID,
		rec.PublishedDate.Format(time.RFC3339), rec.Source, rec.AffectedSystems,
		rec.Mitigation, boolToInt(rec.SolarRelevant), boolToInt(rec.IoTRelevant),
	)

	return err
}

// GetByID retrieves a single feed record.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*domain.ThreatRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM threat_records WHERE id = ?", threatColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanThreatRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get threat record: %w", err)
	}

	return &rec, nil
}

// Find returns feed records matching the filter, newest first.
func (r *SQLiteRepository) Find(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.ThreatType != "" {
		conditions = append(conditions, "threat_type = ?")
		args = append(args, filter.ThreatType)
	}
	if filter.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, string(filter.Severity))
	}
	if filter.SolarRelevant != nil {
		conditions = append(conditions, "is_relevant_to_solar = ?")
		args = append(args, boolToInt(*filter.SolarRelevant))
	}
	if filter.IoTRelevant != nil {
		conditions = append(conditions, "is_relevant_to_iot = ?")
		args = append(args, boolToInt(*filter.IoTRelevant))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM threat_records
		%s
		ORDER BY published_date DESC
		LIMIT ?
	`, threatColumns, where)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanThreatRecords(rows)
}

// SearchByKeywords searches titles and descriptions (fuzzy matching).
func (r *SQLiteRepository) SearchByKeywords(ctx context.Context, keywords []string) ([]domain.ThreatRecord, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var conditions []string
	var args []interface{}

	for _, kw := range keywords {
		conditions = append(conditions, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		needle := "%" + strings.ToLower(kw) + "%"
		args = append(args, needle, needle)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM threat_records
		WHERE %s
		ORDER BY published_date DESC
		LIMIT 50
	`, threatColumns, strings.Join(conditions, " OR "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	defer rows.Close()

	return scanThreatRecords(rows)
}

// TotalCount returns the total number of feed records.
func (r *SQLiteRepository) TotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM threat_records").Scan(&count)
	return count, err
}

// LastSync returns the stored sync status.
func (r *SQLiteRepository) LastSync(ctx context.Context) (domain.ThreatSyncStatus, error) {
	var status domain.ThreatSyncStatus
	var lastSync string

	err := r.db.QueryRowContext(ctx,
		"SELECT last_sync_time, record_count, error_message FROM threat_sync_status WHERE id = 1",
	).Scan(&lastSync, &status.RecordCount, &status.ErrorMessage)
	if err != nil {
		return status, err
	}

	status.LastSyncTime, err = time.Parse(time.RFC3339, lastSync)
	return status, err
}

// UpdateSyncStatus records the outcome of a feed sync.
func (r *SQLiteRepository) UpdateSyncStatus(ctx context.Context, status domain.ThreatSyncStatus) error {
	query := `
		UPDATE threat_sync_status
		SET last_sync_time = ?,
		    record_count = ?,
		    error_message = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`

	_, err := r.db.ExecContext(ctx, query,
		status.LastSyncTime.Format(time.RFC3339),
		status.RecordCount,
		status.ErrorMessage,
	)

	return err
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanThreatRecords(rows *sql.Rows) ([]domain.ThreatRecord, error) {
	var recs []domain.ThreatRecord

	for rows.Next() {
		rec, err := scanThreatRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func scanThreatRecord(row rowScanner) (domain.ThreatRecord, error) {
	var rec domain.ThreatRecord
	var publishedDate string
	var severity string
	var solar, iot int

	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.ThreatType, &severity,
		&rec.CVEID, &publishedDate, &rec.Source, &rec.AffectedSystems,
		&rec.Mitigation, &solar, &iot,
	)
	if err != nil {
		return rec, err
	}

	rec.Severity = domain.Severity(severity)
	rec.SolarRelevant = solar != 0
	rec.IoTRelevant = iot != 0
	rec.PublishedDate, _ = time.Parse(time.RFC3339, publishedDate)

	return rec, nil
}
