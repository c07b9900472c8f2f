package api

import (
	"encoding/json"
	"net/http"
)

// ErrorType is the AWS error shape name sent in the X-Amzn-ErrorType header.
// The SDK uses it to pick the typed error returned to callers.
type ErrorType string

const (
	ErrTypeResourceNotFound ErrorType = "ResourceNotFoundException"
	ErrTypeValidation       ErrorType = "ValidationException"
	ErrTypeThrottling       ErrorType = "ThrottlingException"
	ErrTypeInternal         ErrorType = "InternalServerException"
)

const headerErrorType = "X-Amzn-ErrorType"

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// writeErrorResponse writes an AWS rest-json error.
func writeErrorResponse(w http.ResponseWriter, statusCode int, errType ErrorType, message string) {
	w.Header().Set(headerErrorType, string(errType))
	writeJSON(w, statusCode, ErrorResponse{Message: message})
}

// ResourceNotFoundError creates a 404 ResourceNotFoundException response
func ResourceNotFoundError(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusNotFound, ErrTypeResourceNotFound, message)
}

// ValidationError creates a 400 ValidationException response
func ValidationError(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusBadRequest, ErrTypeValidation, message)
}

// ThrottlingError creates a 429 ThrottlingException response
func ThrottlingError(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusTooManyRequests, ErrTypeThrottling, message)
}

// InternalError creates a 500 InternalServerException response
func InternalError(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusInternalServerError, ErrTypeInternal, message)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
