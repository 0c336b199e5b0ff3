package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"heritagecatalog/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate records problems on v; an empty v means valid.
type Validator interface {
	Validate(v *domain.ValidationError)
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return false
	}
	if val, ok := dest.(Validator); ok {
		v := &domain.ValidationError{}
		val.Validate(v)
		if len(v.Details) > 0 {
			WriteValidationError(w, v)
			return false
		}
	}
	return true
}

// PathID parses the named path value as a positive identifier.
// On failure it writes a 400 and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		WriteValidationError(w, domain.NewValidationError(name, "must be a positive integer, got %q", r.PathValue(name)))
		return 0, false
	}
	return id, true
}
