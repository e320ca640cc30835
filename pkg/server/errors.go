package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// errorResponse is the JSON body returned for all error conditions.
type errorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// statusFor maps error codes to HTTP status codes.
// Validation and reference errors are client errors; everything without a
// recognized code is treated as internal.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidSyntax,
		apperrors.ErrCodeInvalidIdentity,
		apperrors.ErrCodeInvalidVersion,
		apperrors.ErrCodeInvalidCrateType,
		apperrors.ErrCodeInvalidFeature,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeUnresolvedFeature,
		apperrors.ErrCodeUnreachableDep,
		apperrors.ErrCodeDuplicateDep,
		apperrors.ErrCodeFeatureConflict:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodePackageNotFound,
		apperrors.ErrCodePlanNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}

	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Field:   apperrors.GetField(err),
		Message: apperrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
