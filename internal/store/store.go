// Package store holds the read-only backends the dashboard can pull history
// from before falling back to the GitHub API: an Azure Cosmos DB document
// store and a local SQLite cache. Both are populated by a separate ingestion
// job; this service never writes to them.
package store

import (
	"context"
	"errors"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

// ErrNotFound means the backend was reachable but holds no rows matching the
// filter. The fallback chain treats it as soft fallthrough, not failure.
var ErrNotFound = errors.New("no data found for the specified filter")

// MetricsStore reads usage-metric history.
type MetricsStore interface {
	QueryMetrics(ctx context.Context, filter models.MetricsFilter) ([]models.UsageMetric, error)
}

// SeatsStore reads seat-snapshot history.
type SeatsStore interface {
	QuerySeats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error)
}

// Store is a backend serving both data kinds.
type Store interface {
	MetricsStore
	SeatsStore
	Name() string
	Close() error
}
