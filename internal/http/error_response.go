package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/talent-ui-api/internal/errors"
)

// statusForCode maps AppError codes to HTTP statuses.
var statusForCode = map[apperrors.ErrorCode]int{
	apperrors.ErrCodeValidation: http.StatusBadRequest,
	apperrors.ErrCodeNotFound:   http.StatusNotFound,
	apperrors.ErrCodeConflict:   http.StatusConflict,
	apperrors.ErrCodeForbidden:  http.StatusForbidden,
	apperrors.ErrCodeTimeout:    http.StatusGatewayTimeout,
	apperrors.ErrCodeCanceled:   http.StatusServiceUnavailable,
}

// DetermineErrorStatus returns the HTTP status for err. Anything that is not a
// categorized AppError is a 500.
func DetermineErrorStatus(err error) int {
	if status, ok := statusForCode[apperrors.GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteAppError renders err as a JSON error. Internal errors are logged and
// replaced by a generic message so causes do not leak to callers.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := DetermineErrorStatus(err)
	code := string(apperrors.GetCode(err))

	if status == http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"error", err,
		)
		WriteError(w, ErrorParams{
			Code:    status,
			ErrCode: "internal",
			Err:     errors.New("An unexpected error occurred. Please try again."),
		})
		return
	}

	var appErr *apperrors.AppError
	msg := err
	if errors.As(err, &appErr) {
		msg = errors.New(appErr.Message)
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: msg, Field: apperrors.GetField(err)})
}
