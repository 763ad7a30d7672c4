package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
)

// RandomQuotePath is the AnimeChan endpoint for one random quote.
const RandomQuotePath = "/api/v1/quotes/random"

// AnimeChanClientConfig contains configuration for the AnimeChan client.
type AnimeChanClientConfig struct {
	// Client must have its BaseURL set to the AnimeChan host.
	Client *clients.Client

	// Source names the upstream in errors and health output. Defaults to
	// the client's service name.
	Source string

	Logger *slog.Logger
}

// AnimeChanClient implements ports.QuoteSource against the AnimeChan API.
// It also reports the upstream circuit state as an optional health check.
type AnimeChanClient struct {
	BaseAdapter
}

// NewAnimeChanClient creates the AnimeChan adapter.
// Panics if Client is nil.
func NewAnimeChanClient(cfg AnimeChanClientConfig) *AnimeChanClient {
	if cfg.Client == nil {
		panic("AnimeChanClient: Client is required")
	}

	source := cfg.Source
	if source == "" {
		source = cfg.Client.ServiceName()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AnimeChanClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, source, logger.With(slog.String("component", "acl.AnimeChanClient"))),
	}
}

// RandomQuote fetches one random quote. The payload is returned as the
// upstream sent it, minus the response envelope.
func (c *AnimeChanClient) RandomQuote(ctx context.Context) (domain.QuotePayload, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", RandomQuotePath))

	body, err := c.Get(ctx, RandomQuotePath)
	if err != nil {
		return nil, err
	}

	raw, err := DecodeResponse[json.RawMessage](body)
	if err != nil {
		return nil, domain.NewSourceUnavailableError(c.source, err)
	}

	payload, err := UnwrapEnvelope(*raw)
	if err != nil {
		return nil, domain.NewSourceUnavailableError(c.source, err)
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated quote payload",
		slog.String("anime", domain.QuoteFromPayload(payload).Anime.Name))

	return payload, nil
}

// Name implements ports.HealthChecker.
func (c *AnimeChanClient) Name() string {
	return c.source
}

// Check reports the circuit breaker state instead of calling the API, so
// health checks never spend the upstream rate limit.
func (c *AnimeChanClient) Check(_ context.Context) error {
	if state := c.client.CircuitState(); state != clients.StateClosed {
		return fmt.Errorf("circuit breaker %s", state)
	}

	return nil
}

// Optional implements ports.OptionalDependency. History keeps working
// without the quote source.
func (c *AnimeChanClient) Optional() bool {
	return true
}
