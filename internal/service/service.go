// Package service resolves dashboard queries through the configured backend
// chain and derives the display-ready per-user metrics table.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/config"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/store"
)

// API is the terminal fallback tier; implemented by the GitHub client.
type API interface {
	Metrics(ctx context.Context, filter models.MetricsFilter) (*models.MetricsResult, error)
	Seats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error)
}

const apiTierName = "github"

// ErrScopeMissing means neither an enterprise nor an organization was
// resolvable for a query that needs exactly one.
var ErrScopeMissing = errors.New("no enterprise or organization specified")

// Service answers metrics/seats queries by walking an ordered tier list
// built once from configuration: document store, then relational cache,
// then the remote API. A tier "succeeds" only with a non-error, non-empty
// result; anything else falls through to the next tier. Only the terminal
// tier's failure reaches the caller.
type Service struct {
	cfg    *config.Config
	api    API
	stores []store.Store
	logger *zap.Logger

	// test seams
	rng Rand
	now func() time.Time
}

func New(cfg *config.Config, api API, stores []store.Store, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		api:    api,
		stores: stores,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// applyScopeDefault fills the scope discriminator matching the configured
// API scope from the global default when the caller left it empty. The same
// rule applies at every tier, so it runs once at entry.
func (s *Service) applyScopeDefault(enterprise, organization string) (string, string) {
	switch s.cfg.Github.Scope {
	case config.ScopeEnterprise:
		if enterprise == "" {
			enterprise = s.cfg.Github.Enterprise
		}
	default:
		if organization == "" {
			organization = s.cfg.Github.Organization
		}
	}
	return enterprise, organization
}

// Metrics resolves usage metrics through the fallback chain.
func (s *Service) Metrics(ctx context.Context, filter models.MetricsFilter) (*models.MetricsResult, error) {
	filter.Enterprise, filter.Organization = s.applyScopeDefault(filter.Enterprise, filter.Organization)

	for _, st := range s.stores {
		records, err := st.QueryMetrics(ctx, filter)
		if err != nil || len(records) == 0 {
			s.logFallthrough("metrics", st.Name(), err)
			continue
		}
		internal.BackendResolves.WithLabelValues("metrics", st.Name()).Inc()
		return &models.MetricsResult{Metrics: records}, nil
	}

	result, err := s.api.Metrics(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("metrics: terminal api tier: %w", err)
	}
	internal.BackendResolves.WithLabelValues("metrics", apiTierName).Inc()
	return result, nil
}

// Seats resolves the seat snapshot through the fallback chain.
func (s *Service) Seats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error) {
	filter.Enterprise, filter.Organization = s.applyScopeDefault(filter.Enterprise, filter.Organization)

	for _, st := range s.stores {
		snapshot, err := st.QuerySeats(ctx, filter)
		if err != nil || snapshot == nil || len(snapshot.Seats) == 0 {
			s.logFallthrough("seats", st.Name(), err)
			continue
		}
		internal.BackendResolves.WithLabelValues("seats", st.Name()).Inc()
		return snapshot, nil
	}

	if filter.Enterprise == "" && filter.Organization == "" {
		return nil, ErrScopeMissing
	}

	snapshot, err := s.api.Seats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("seats: terminal api tier: %w", err)
	}
	internal.BackendResolves.WithLabelValues("seats", apiTierName).Inc()
	return snapshot, nil
}

// SeatManagement resolves seats and summarizes their activity breakdown.
func (s *Service) SeatManagement(ctx context.Context, filter models.SeatsFilter) (*models.SeatManagement, error) {
	snapshot, err := s.Seats(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := SeatManagementFor(snapshot, s.now())
	return &summary, nil
}

// UserMetrics builds the per-user metrics table for one organization: seats
// first, then aggregate metrics for the trailing 30 days, then the synthetic
// distribution. Metrics failures degrade to the fully synthetic path rather
// than failing the table.
func (s *Service) UserMetrics(ctx context.Context, organization string) (map[string]models.UserMetricsEntry, error) {
	snapshot, err := s.Seats(ctx, models.SeatsFilter{Organization: organization})
	if err != nil {
		return nil, fmt.Errorf("fetching seats for %s: %w", organization, err)
	}
	s.logger.Info("fetched seats for user metrics",
		zap.String("organization", organization),
		zap.Int("seats", len(snapshot.Seats)),
	)

	now := s.now()
	start := now.AddDate(0, 0, -activityWindowDays)
	metricsFilter := models.MetricsFilter{
		StartDate:    &start,
		EndDate:      &now,
		Organization: organization,
	}

	var totals AggregateTotals
	if result, err := s.Metrics(ctx, metricsFilter); err != nil {
		s.logger.Warn("metrics unavailable, generating fully synthetic user table",
			zap.String("organization", organization),
			zap.Error(err),
		)
	} else {
		totals = Aggregate(result.Metrics)
	}

	return DistributeUserMetrics(snapshot.Seats, totals, now, s.rng), nil
}

// RawMetrics returns the verbatim metrics API response for audit display.
// When a database is configured the chain would serve stored rows without
// raw text, so the API is queried directly.
func (s *Service) RawMetrics(ctx context.Context) (*models.MetricsResult, error) {
	filter := models.MetricsFilter{
		Enterprise:   s.cfg.Github.Enterprise,
		Organization: s.cfg.Github.Organization,
	}
	if s.cfg.DatabaseConfigured() {
		return s.api.Metrics(ctx, filter)
	}
	return s.Metrics(ctx, filter)
}

// RawSeats is RawMetrics for the seats resource.
func (s *Service) RawSeats(ctx context.Context) (*models.SeatsSnapshot, error) {
	filter := models.SeatsFilter{
		Enterprise:   s.cfg.Github.Enterprise,
		Organization: s.cfg.Github.Organization,
	}
	if s.cfg.DatabaseConfigured() {
		return s.api.Seats(ctx, filter)
	}
	return s.Seats(ctx, filter)
}

func (s *Service) logFallthrough(kind, tier string, err error) {
	internal.BackendFallthroughs.WithLabelValues(kind, tier).Inc()
	switch {
	case err == nil || errors.Is(err, store.ErrNotFound):
		s.logger.Debug("backend tier empty, falling through",
			zap.String("kind", kind),
			zap.String("tier", tier),
		)
	default:
		s.logger.Warn("backend tier failed, falling through",
			zap.String("kind", kind),
			zap.String("tier", tier),
			zap.Error(err),
		)
	}
}
