package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthChecker pings the primary through the connection cache. The first
// readiness check therefore also performs the initial connect.
type HealthChecker struct {
	conns Connector
}

// NewHealthChecker creates the store readiness check.
func NewHealthChecker(conns Connector) *HealthChecker {
	return &HealthChecker{conns: conns}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "mongo"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	client, err := h.conns.Acquire(ctx)
	if err != nil {
		return err
	}

	return client.Ping(ctx, readpref.Primary())
}
