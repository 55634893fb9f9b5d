package capacities

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	apperrors "statdash/pkg/errors"
)

// maxErrorBodyBytes caps how much of a failed response is read
const maxErrorBodyBytes = 64 * 1024

// APIError is a non-2xx response from the Capacities API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("capacities api returned %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying later may succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = firstNonEmpty(payload.Message, payload.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// toAppError classifies an APIError for the HTTP layer
func toAppError(resource string, apiErr *APIError) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		appErr = apperrors.NewUnauthorizedError("capacities rejected the api token")
	case apiErr.StatusCode == http.StatusNotFound:
		appErr = apperrors.NewNotFoundError(resource)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		appErr = apperrors.NewRateLimitError("capacities rate limit exceeded")
	default:
		appErr = apperrors.NewExternalError("capacities", nil)
	}
	return appErr.
		WithCause(apiErr).
		WithCode(fmt.Sprintf("CAPACITIES_%d", apiErr.StatusCode)).
		WithDetails(map[string]interface{}{
			"upstream_status": apiErr.StatusCode,
			"resource":        resource,
		})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
