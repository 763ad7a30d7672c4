package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

// BaseAdapter provides the request and error plumbing shared by source adapters.
type BaseAdapter struct {
	client *clients.Client
	source string
	logger *slog.Logger
}

// NewBaseAdapter creates a base adapter reporting errors against source.
func NewBaseAdapter(client *clients.Client, source string, logger *slog.Logger) BaseAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	return BaseAdapter{client: client, source: source, logger: logger}
}

// Source returns the name used in domain errors and health checks.
func (a *BaseAdapter) Source() string {
	return a.source
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// Get performs a GET and returns the body of a 2xx response, which the
// caller must close. Every other outcome is returned as a domain error.
func (a *BaseAdapter) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.source)
	}

	if mapped := MapHTTPError(resp, nil, a.source); mapped != nil {
		defer func() { _ = resp.Body.Close() }()

		attrs := []any{slog.String("path", path), slog.Int("status", resp.StatusCode)}
		if errResp := ParseErrorResponse(resp.Body); errResp != nil {
			attrs = append(attrs, slog.String("upstream_message", errResp.GetMessage()))
		}

		a.logger.WarnContext(ctx, "quote source returned an error", attrs...)

		return nil, mapped
	}

	return resp.Body, nil
}

// maxResponseBody bounds a success body. A quote is a few hundred bytes;
// anything past the limit is cut off and fails to decode.
const maxResponseBody = 1 << 20

// DecodeResponse decodes a JSON body of at most maxResponseBody bytes into
// T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBody)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// envelope is the {"status": ..., "data": {...}} wrapper AnimeChan uses.
type envelope struct {
	Data map[string]any `json:"data"`
}

// UnwrapEnvelope reads a quote object out of raw. The "data" member is
// preferred; a body without it is taken to be the quote itself.
func UnwrapEnvelope(raw json.RawMessage) (domain.QuotePayload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding quote envelope: %w", err)
	}

	if env.Data != nil {
		return domain.QuotePayload(env.Data), nil
	}

	var whole map[string]any
	if err := json.Unmarshal(raw, &whole); err != nil {
		return nil, fmt.Errorf("decoding quote: %w", err)
	}

	if whole == nil {
		return nil, errors.New("quote response was null")
	}

	return domain.QuotePayload(whole), nil
}
