package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

const (
	cosmosDatabase     = "platform-engineering"
	metricsContainer   = "metrics_history"
	seatsContainer     = "seats_history"
	dateLayout         = "2006-01-02"
	maxHistoryRows     = 365 * 2 // hard cap on any one fetch
	defaultMetricsDays = 31
)

// CosmosStore reads metrics and seat history from Azure Cosmos DB.
type CosmosStore struct {
	client *azcosmos.Client
	logger *zap.Logger
}

func NewCosmosStore(endpoint, key string, logger *zap.Logger) (*CosmosStore, error) {
	cred, err := azcosmos.NewKeyCredential(key)
	if err != nil {
		return nil, fmt.Errorf("creating cosmos credential: %w", err)
	}

	client, err := azcosmos.NewClientWithKey(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating cosmos client: %w", err)
	}

	return &CosmosStore{client: client, logger: logger}, nil
}

func (s *CosmosStore) Name() string { return "cosmosdb" }

func (s *CosmosStore) Close() error { return nil }

// QueryMetrics returns metric records in the filter's date range, scoped by
// enterprise/organization/team when given. Without an explicit range it
// covers the trailing 31 days.
func (s *CosmosStore) QueryMetrics(ctx context.Context, filter models.MetricsFilter) ([]models.UsageMetric, error) {
	var start, end string
	if filter.StartDate != nil && filter.EndDate != nil {
		start = filter.StartDate.Format(dateLayout)
		end = filter.EndDate.Format(dateLayout)
	} else {
		today := time.Now().UTC()
		start = today.AddDate(0, 0, -defaultMetricsDays).Format(dateLayout)
		end = today.Format(dateLayout)
	}

	query := "SELECT * FROM c WHERE c.date >= @start AND c.date <= @end"
	params := []azcosmos.QueryParameter{
		{Name: "@start", Value: start},
		{Name: "@end", Value: end},
	}
	query, params = appendScopeConditions(query, params, filter.Enterprise, filter.Organization, filter.Team)

	items, err := s.queryItems(ctx, metricsContainer, query, params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	metrics := make([]models.UsageMetric, 0, len(items))
	for _, item := range items {
		var m models.UsageMetric
		if err := json.Unmarshal(item, &m); err != nil {
			s.logger.Warn("skipping malformed metrics document", zap.Error(err))
			continue
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// QuerySeats returns the seat snapshot for the filter's date, defaulting to
// today.
func (s *CosmosStore) QuerySeats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error) {
	date := time.Now().UTC().Format(dateLayout)
	if filter.Date != nil {
		date = filter.Date.Format(dateLayout)
	}

	query := "SELECT * FROM c WHERE c.date = @date"
	params := []azcosmos.QueryParameter{{Name: "@date", Value: date}}
	query, params = appendScopeConditions(query, params, filter.Enterprise, filter.Organization, filter.Team)

	items, err := s.queryItems(ctx, seatsContainer, query, params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	var snapshot models.SeatsSnapshot
	if err := json.Unmarshal(items[0], &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshaling seats document: %w", err)
	}
	return &snapshot, nil
}

func (s *CosmosStore) queryItems(ctx context.Context, containerName, query string, params []azcosmos.QueryParameter) ([][]byte, error) {
	container, err := s.client.NewContainer(cosmosDatabase, containerName)
	if err != nil {
		return nil, fmt.Errorf("opening container %s: %w", containerName, err)
	}

	pager := container.NewQueryItemsPager(query, azcosmos.PartitionKey{}, &azcosmos.QueryOptions{
		QueryParameters: params,
		PageSizeHint:    maxHistoryRows,
	})

	var items [][]byte
	for pager.More() && len(items) < maxHistoryRows {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", containerName, err)
		}
		items = append(items, page.Items...)
	}
	if len(items) > maxHistoryRows {
		items = items[:maxHistoryRows]
	}
	return items, nil
}

func appendScopeConditions(query string, params []azcosmos.QueryParameter, enterprise, organization, team string) (string, []azcosmos.QueryParameter) {
	if enterprise != "" {
		query += " AND c.enterprise = @enterprise"
		params = append(params, azcosmos.QueryParameter{Name: "@enterprise", Value: enterprise})
	}
	if organization != "" {
		query += " AND c.organization = @organization"
		params = append(params, azcosmos.QueryParameter{Name: "@organization", Value: organization})
	}
	if team != "" {
		query += " AND c.team = @team"
		params = append(params, azcosmos.QueryParameter{Name: "@team", Value: team})
	}
	return query, params
}
