package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"next only", `<https://api.github.com/orgs/acme/copilot/billing/seats?page=2>; rel="next"`, "https://api.github.com/orgs/acme/copilot/billing/seats?page=2"},
		{"next and last", `<https://x/p?page=2>; rel="next", <https://x/p?page=5>; rel="last"`, "https://x/p?page=2"},
		{"prev only", `<https://x/p?page=1>; rel="prev"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, nextPageURL(tt.header))
		})
	}
}

func TestSeatsFollowsPagination(t *testing.T) {
	pages := []string{
		`{"total_seats": 5, "seats": [{"assignee": {"login": "alice"}}, {"assignee": {"login": "bob"}}]}`,
		`{"total_seats": 5, "seats": [{"assignee": {"login": "carol"}}, {"assignee": {"login": "dave"}}]}`,
		`{"total_seats": 5, "seats": [{"assignee": {"login": "erin"}}]}`,
	}

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.String())
		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		if page < len(pages)-1 {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=%d>; rel="next"`, r.Host, r.URL.Path, page+1))
		}
		w.Write([]byte(pages[page]))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "2022-11-28", zap.NewNop())
	snapshot, err := client.Seats(context.Background(), models.SeatsFilter{Organization: "acme"})
	require.NoError(t, err)

	require.Len(t, requested, 3)
	require.Len(t, snapshot.Seats, 5)
	require.Equal(t, 15, snapshot.TotalSeats)
	require.Equal(t, "acme", snapshot.Organization)
	require.Equal(t, snapshot.Date+"-ORG-acme", snapshot.ID)

	// Raw text carries each page verbatim, in order, with the boundary
	// marker between pages.
	parts := strings.Split(snapshot.RawAPIResponse, PageBoundary)
	require.Equal(t, pages, parts)
}

func TestSeatsAbortsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "2022-11-28", zap.NewNop())
	_, err := client.Seats(context.Background(), models.SeatsFilter{Organization: "acme"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	require.Equal(t, "acme", httpErr.Endpoint)
}

func TestMetricsQueryParamsAndRaw(t *testing.T) {
	body := `[{"date": "2025-06-01", "total_active_users": 12}]`
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.Equal(t, "/enterprises/megacorp/copilot/metrics", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "2022-11-28", zap.NewNop())

	start := mustDate(t, "2025-05-01")
	end := mustDate(t, "2025-06-01")
	result, err := client.Metrics(context.Background(), models.MetricsFilter{
		Enterprise: "megacorp",
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	require.Equal(t, "since=2025-05-01&until=2025-06-01", gotQuery)
	require.Len(t, result.Metrics, 1)
	require.Equal(t, "2025-06-01", result.Metrics[0].Date)
	require.Equal(t, body, result.RawAPIResponse)
}

func mustDate(t *testing.T, s string) (d time.Time) {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	require.NoError(t, err)
	return d
}

func TestMetricsRequiresScope(t *testing.T) {
	client := NewClient("http://unused", "t", "v", zap.NewNop())
	_, err := client.Metrics(context.Background(), models.MetricsFilter{})
	require.Error(t, err)
	_, err = client.Seats(context.Background(), models.SeatsFilter{})
	require.Error(t, err)
}
