// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "RATE_LIMITED").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context, such as field-level validation
	// messages or the upstream status of a SOURCE_ERROR.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	ErrorCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrorCodeRateLimited       = "RATE_LIMITED"
	ErrorCodeSourceError       = "SOURCE_ERROR"
	ErrorCodeMissingParameter  = "MISSING_PARAMETER"
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeBadRequest        = "BAD_REQUEST"
	ErrorCodeNotFound          = "NOT_FOUND"
	ErrorCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrorCodeTimeout           = "TIMEOUT"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

// Messages shown to callers. The rate-limit text is what clients display
// verbatim, so it must not change.
const (
	MessageRateLimited       = "Rate limit exceeded. Please wait a moment before trying again."
	MessageSourceUnavailable = "Failed to load quote. Please try again later."
	MessageStoreUnavailable  = "The quote store is unavailable. Please try again later."
	MessageInternal          = "an internal error occurred"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeSourceError:
		return http.StatusBadGateway
	case ErrorCodeSourceUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeMissingParameter, ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsMissingParameter(err):
		var missing *domain.MissingParameterError
		if errors.As(err, &missing) {
			return http.StatusBadRequest, NewErrorResponseWithDetails(
				ErrorCodeMissingParameter,
				fmt.Sprintf("Missing %s parameter", missing.Name),
				map[string]string{"parameter": missing.Name},
			)
		}

		return http.StatusBadRequest, NewErrorResponse(ErrorCodeMissingParameter, err.Error())

	case domain.IsRateLimited(err):
		return http.StatusTooManyRequests, NewErrorResponse(ErrorCodeRateLimited, MessageRateLimited)

	case domain.IsSourceFailure(err):
		var srcErr *domain.SourceError
		if errors.As(err, &srcErr) {
			return http.StatusBadGateway, NewErrorResponseWithDetails(
				ErrorCodeSourceError,
				fmt.Sprintf("Quote source returned HTTP %d", srcErr.Status),
				map[string]string{"status": strconv.Itoa(srcErr.Status)},
			)
		}

		return http.StatusBadGateway, NewErrorResponse(ErrorCodeSourceError, err.Error())

	case domain.IsSourceUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeSourceUnavailable, MessageSourceUnavailable)

	case domain.IsStoreUnavailable(err):
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeStoreUnavailable, MessageStoreUnavailable)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, MessageInternal)
	}
}

// HandleError writes the mapped error response for err. Server-side
// failures are logged with the full error.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			"status", status,
			"code", resp.Error.Code,
			"error", err.Error(),
		)
	}

	c.JSON(status, resp)
}

// AbortWithCode aborts the handler chain with an error response for code.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the trace ID for the request. It prefers a value set
// on the gin context, then the active span, then the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.Request.Header.Get("X-Request-ID")
}
