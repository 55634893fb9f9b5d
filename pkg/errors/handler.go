package errors

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"statdash/pkg/common"
)

// ErrorHandler turns errors into enveloped JSON responses.
// Validation errors answer 400 and rejections by our own middleware answer
// 401, 403 or 429. Every other failure answers 500 and carries the error
// message so dashboard clients can show what went wrong upstream.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status := StatusFor(err)
	code := string(ErrorTypeInternal)
	message := err.Error()
	var details map[string]interface{}

	if appErr := GetAppError(err); appErr != nil {
		code = string(appErr.Type)
		if appErr.Code != "" {
			code = appErr.Code
		}
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
		details = appErr.Details
		if h.debug && appErr.StackTrace != "" {
			details = copyDetails(details)
			details["stack_trace"] = appErr.StackTrace
		}
	}

	h.logError(r, err, status, code)
	common.RespondErrorWithDetails(w, r, status, code, message, details)
}

// HandleStatus sends an error response with a specific status code
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)
	common.RespondError(w, r, status, statusToErrorType(status), message)
}

// StatusFor maps an error to the HTTP status of its response
func StatusFor(err error) int {
	appErr := GetAppError(err)
	if appErr == nil {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeRateLimit:
		// bare errors come from our own middleware, wrapped ones from upstream
		if appErr.Cause == nil {
			return http.StatusTooManyRequests
		}
	case ErrorTypeUnauthorized:
		if appErr.Cause == nil {
			return http.StatusUnauthorized
		}
	case ErrorTypeForbidden:
		if appErr.Cause == nil {
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

// logError logs an error with a level matching its status
func (h *ErrorHandler) logError(r *http.Request, err error, status int, code string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_code", code),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", common.ExtractRequestID(r)),
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
		return
	}
	h.logger.Warn("Request rejected", fields...)
}

func copyDetails(details map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	return out
}

// statusToErrorType maps HTTP status to error type
func statusToErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(ErrorTypeValidation)
	case http.StatusUnauthorized:
		return string(ErrorTypeUnauthorized)
	case http.StatusForbidden:
		return string(ErrorTypeForbidden)
	case http.StatusNotFound:
		return string(ErrorTypeNotFound)
	case http.StatusTooManyRequests:
		return string(ErrorTypeRateLimit)
	case http.StatusServiceUnavailable:
		return string(ErrorTypeUnavailable)
	case http.StatusGatewayTimeout:
		return string(ErrorTypeTimeout)
	default:
		return string(ErrorTypeInternal)
	}
}

// Middleware returns an HTTP middleware that turns panics into error responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
