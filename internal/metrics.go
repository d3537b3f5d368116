package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tierLabels = []string{"kind", "tier"}

var BackendResolves *prometheus.CounterVec = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "copilot_dashboard_backend_resolve_total",
	Help: "Queries resolved per data kind (metrics/seats) and backend tier (cosmosdb/sqlite/github)",
}, tierLabels)

var BackendFallthroughs *prometheus.CounterVec = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "copilot_dashboard_backend_fallthrough_total",
	Help: "Queries that fell through a backend tier to the next one, per data kind and tier",
}, tierLabels)

var GithubPagesFetched prometheus.Counter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "copilot_dashboard_github_pages_fetched_total",
	Help: "Pages fetched from the GitHub API across all paginated requests",
})

var DegradedResponses prometheus.Counter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "copilot_dashboard_degraded_responses_total",
	Help: "Requests answered with the canned example payload after an internal failure",
})
