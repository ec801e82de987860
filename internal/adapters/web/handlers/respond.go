package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/services/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

// validationErrs are entity-level constraint failures that map to 400.
var validationErrs = []error{
	domain.ErrEmptyUsername,
	domain.ErrEmptyEmail,
	domain.ErrEmptyPassword,
	domain.ErrEmptyScanName,
	domain.ErrEmptyRange,
	domain.ErrInvalidScanType,
	domain.ErrInvalidStatus,
	domain.ErrScanOwnerMissing,
	domain.ErrEmptyIPAddress,
	domain.ErrEmptyVulnName,
	domain.ErrInvalidSeverity,
	domain.ErrInvalidVulnStatus,
	domain.ErrInvalidCVSSScore,
	domain.ErrVulnParentRequired,
	domain.ErrInvalidReportType,
	domain.ErrEmptyRuleName,
	domain.ErrInvalidProtocol,
	domain.ErrInvalidAction,
	domain.ErrRuleOwnerNeeded,
	domain.ErrInvalidSecurityScore,
	domain.ErrInvalidIsolationScore,
	domain.ErrInvalidGrade,
	domain.ErrInvalidFirmwareState,
	domain.ErrEmptyThreatTitle,
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrInUse),
		errors.Is(err, domain.ErrAssessmentExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrScanNotRunning),
		errors.Is(err, domain.ErrScanNotTerminal),
		errors.Is(err, domain.ErrParentMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidSession),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}

	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// pathID64 parses the {id} route variable for int64-keyed records.
func pathID64(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func queryUint(r *http.Request, key string) (uint, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func queryBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
