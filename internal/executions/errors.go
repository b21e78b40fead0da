package executions

import (
	"errors"
	"net/http"
)

// Domain errors for execution operations.
var (
	ErrNotFound       = errors.New("execution not found")
	ErrDuplicate      = errors.New("execution already exists")
	ErrInvalidInput   = errors.New("invalid execution request")
	ErrSourceNotFound = errors.New("source document not found in storage")
	ErrMarksNotReady  = errors.New("mark sheet not yet generated")
	ErrNotTerminal    = errors.New("execution still in progress")
)

// MapHTTPStatus maps execution domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrSourceNotFound) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrMarksNotReady) || errors.Is(err, ErrNotTerminal) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
