package domain

import "errors"

// Cross-entity errors surfaced by the persistence layer and the
// lifecycle rules. Callers branch on these with errors.Is.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. username, email or a second assessment for a scan.
	ErrDuplicate = errors.New("record already exists")

	// ErrParentMissing is returned when a child row references a parent
	// that does not exist.
	ErrParentMissing = errors.New("referenced parent does not exist")

	// ErrInUse is returned when a delete is blocked by rows that still
	// reference the target.
	ErrInUse = errors.New("record is referenced by other records")

	// ErrInvalidTransition is returned for scan status moves outside
	// pending -> running -> completed/failed.
	ErrInvalidTransition = errors.New("invalid scan status transition")

	// ErrScanNotRunning is returned when findings are recorded against a
	// scan that is not in the running state.
	ErrScanNotRunning = errors.New("scan is not running")

	// ErrScanNotTerminal is returned when a report is registered for a
	// scan that has not finished.
	ErrScanNotTerminal = errors.New("scan has not finished")

	// ErrAssessmentExists is returned when a scan already has a solar
	// assessment.
	ErrAssessmentExists = errors.New("scan already has a solar assessment")
)
