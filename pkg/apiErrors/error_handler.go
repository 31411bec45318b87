package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes grouped by concern
const (
	// Authentication errors (1000-1999)
	ErrInvalidCredentials    = "AUTH_001" // Invalid credentials
	ErrInvalidToken          = "AUTH_002" // Invalid token
	ErrExpiredToken          = "AUTH_003" // Expired token
	ErrInsufficientPrivilege = "AUTH_004" // Insufficient privileges

	// Validation errors (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Invalid request
	ErrMissingRequiredData = "VAL_002" // Required data missing
	ErrInvalidFormat       = "VAL_003" // Invalid data format
	ErrInvalidThresholds   = "VAL_004" // Malformed scoring thresholds or weights
	ErrInsufficientData    = "VAL_005" // Not enough records to produce the requested output

	// License errors (3000-3999)
	ErrLicenseMissing  = "LIC_001" // No license key configured
	ErrLicenseInvalid  = "LIC_002" // License rejected by the validation service
	ErrLicenseExpired  = "LIC_003" // License or grace period expired
	ErrLicenseMismatch = "LIC_004" // Key belongs to another product

	// CRM integration errors (4000-4999)
	ErrCRMUnauthorized = "CRM_001" // CRM token missing or revoked
	ErrCRMForbidden    = "CRM_002" // CRM token lacks required scopes
	ErrCRMRateLimited  = "CRM_003" // CRM rate limit hit
	ErrCRMUnavailable  = "CRM_004" // CRM unreachable or returning 5xx

	// Server errors (5000-5999)
	ErrInternalServer    = "SRV_001" // Internal server error
	ErrDatabaseOperation = "SRV_002" // Local cache database error
	ErrExternalService   = "SRV_003" // External service error
	ErrCommunication     = "SRV_004" // Communication error
)

// Error code to HTTP status mapping
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrInvalidThresholds:     http.StatusBadRequest,
	ErrInsufficientData:      http.StatusUnprocessableEntity,
	ErrLicenseMissing:        http.StatusPaymentRequired,
	ErrLicenseInvalid:        http.StatusPaymentRequired,
	ErrLicenseExpired:        http.StatusPaymentRequired,
	ErrLicenseMismatch:       http.StatusPaymentRequired,
	ErrCRMUnauthorized:       http.StatusUnauthorized,
	ErrCRMForbidden:          http.StatusForbidden,
	ErrCRMRateLimited:        http.StatusTooManyRequests,
	ErrCRMUnavailable:        http.StatusBadGateway,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError is the standardized API error payload
type APIError struct {
	Code    string `json:"code"`              // Machine-readable error code
	Message string `json:"message,omitempty"` // Human-readable message (optional)
	Details any    `json:"details,omitempty"` // Additional details (optional)
}

// WriteError writes the standardized error to the HTTP response
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into a standardized API error
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
