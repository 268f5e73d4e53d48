package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"irisd/internal/inference"
	"irisd/pkg/types"
)

// writeJSONError writes a consistent JSON error payload. field may be empty.
func writeJSONError(w http.ResponseWriter, status int, msg, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status, Field: field})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a Predict error to its HTTP status, client message and field.
func statusFor(err error) (int, string, string) {
	switch {
	case inference.IsServiceUnavailable(err):
		return http.StatusServiceUnavailable, err.Error(), ""
	case inference.IsValidation(err):
		field, _ := inference.ValidationField(err)
		return http.StatusBadRequest, err.Error(), field
	case inference.IsInference(err):
		return http.StatusInternalServerError, "processing failed: " + strings.TrimPrefix(err.Error(), "inference failed: "), ""
	default:
		return http.StatusInternalServerError, "processing failed", ""
	}
}
