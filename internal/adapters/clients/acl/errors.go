package acl

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

// maxErrorBody bounds how much of an error body is read for logging.
const maxErrorBody = 4 << 10

// ErrorResponse is the error body an upstream may send. Both a nested
// {"error":{"message":...}} and a flat {"message":...} shape are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested form of ErrorResponse.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetMessage returns whichever message the upstream supplied.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes an error body. It returns nil when the body is
// empty, is not JSON, or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError classifies a failed call against source.
//
// A non-nil clientErr means no response arrived. Otherwise the status of resp
// decides the kind. A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, source string) error {
	if clientErr != nil {
		// clients.ErrCircuitOpen and clients.ErrRequestFailed alike.
		return domain.NewSourceUnavailableError(source, clientErr)
	}

	if resp == nil {
		return domain.NewSourceUnavailableError(source, errors.New("no response received"))
	}

	return mapStatusCode(resp.StatusCode, source)
}

func mapStatusCode(status int, source string) error {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusTooManyRequests:
		return domain.NewRateLimitedError(source)
	default:
		return domain.NewSourceError(source, status)
	}
}
