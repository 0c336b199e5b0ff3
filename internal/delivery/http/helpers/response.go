package helpers

import (
	"encoding/json"
	"net/http"

	"heritagecatalog/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeValidation    = "validation_error"
	ErrCodeReference     = "unknown_reference"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
	ErrCodeUnavailable   = "unavailable"
)

// APIResponse is the success envelope for all API responses.
// swagger:model APIResponse
type APIResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// APIErrorResponse is the error envelope. Details lists field-level validation failures.
// swagger:model APIErrorResponse
type APIErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with success=true and the given data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// WriteJSONError writes an error envelope without field details.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIErrorResponse{Error: message, Code: code})
}

// WriteValidationError writes a 400 carrying the field details of err.
func WriteValidationError(w http.ResponseWriter, err *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, APIErrorResponse{
		Error:   "validation failed",
		Code:    ErrCodeValidation,
		Details: err.Details,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
