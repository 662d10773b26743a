package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/gemfall/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidProfile     = "INVALID_PROFILE"
	CodeInvalidSimulation  = "INVALID_SIMULATION"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeSimulationNotFound = "SIMULATION_NOT_FOUND"
	CodeBuiltinProfile     = "BUILTIN_PROFILE"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Validation errors carry their detail, so their message is passed through
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrSimulationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSimulationNotFound, "Simulation not found"}}
	case errors.Is(err, model.ErrBuiltinProfile):
		return &httpError{http.StatusConflict, APIError{CodeBuiltinProfile, "Builtin profiles cannot be modified"}}
	case errors.Is(err, model.ErrInvalidProfile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidProfile, err.Error()}}
	case errors.Is(err, model.ErrInvalidSimulation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSimulation, err.Error()}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates an error for a path no route serves
func NewNotFoundError(path string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "No route for " + path}}
}

// NewMethodNotAllowedError creates an error for a route called with the wrong method
func NewMethodNotAllowedError(method, path string) error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, method + " is not allowed on " + path}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
