package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"statdash/pkg/common"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) common.APIResponse {
	t.Helper()
	var body common.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_Handle(t *testing.T) {
	upstream := NewExternalError("capacities", stderrors.New("502 bad gateway"))

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation",
			err:     fmt.Errorf("query validation failed: %w", NewValidationError("structureid is required")),
			status:  http.StatusBadRequest,
			code:    "VALIDATION",
			message: "structureid is required",
		},
		{
			name:    "plain error keeps message",
			err:     stderrors.New("failed to fetch space info: boom"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "failed to fetch space info: boom",
		},
		{
			name:    "upstream error is a server error",
			err:     fmt.Errorf("failed to fetch space info: %w", upstream.WithCode("CAPACITIES_502")),
			status:  http.StatusInternalServerError,
			code:    "CAPACITIES_502",
			message: "failed to fetch space info: EXTERNAL: external service 'capacities' error (caused by: 502 bad gateway)",
		},
		{
			name:    "missing token",
			err:     NewUnauthorizedError("missing authentication token"),
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "missing authentication token",
		},
		{
			name:    "upstream rejected our token",
			err:     NewUnauthorizedError("invalid token").WithCause(stderrors.New("401")),
			status:  http.StatusInternalServerError,
			code:    "UNAUTHORIZED",
			message: "UNAUTHORIZED: invalid token (caused by: 401)",
		},
		{
			name:    "own rate limit",
			err:     NewRateLimitError(""),
			status:  http.StatusTooManyRequests,
			code:    "RATE_LIMIT",
			message: "rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

			NewErrorHandler(zap.NewNop(), false).Handle(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			require.NotNil(t, body.Meta)
			assert.NotEmpty(t, body.Meta.Timestamp)
		})
	}
}

func TestErrorHandler_DebugAddsStackTrace(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	NewErrorHandler(zap.NewNop(), true).Handle(rec, req, NewInternalError("broken"))

	body := decode(t, rec)
	assert.Contains(t, body.Error.Details, "stack_trace")
}

func TestErrorHandler_Middleware(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Message, "kaboom")
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("structure x"))

	assert.True(t, IsAppError(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "structure x not found", GetAppError(err).Message)
	assert.True(t, IsUpstream(NewNetworkError("down", nil)))
	assert.Nil(t, GetAppError(stderrors.New("plain")))
}
