package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// PageBoundary separates raw page texts in a concatenated response.
const PageBoundary = "\n\n--- NEXT PAGE ---\n\n"

const lowRateLimitThreshold = 50

// HTTPError is a non-2xx response from the GitHub API. The whole fetch
// aborts on the first one; retries, if wanted, belong to the caller.
type HTTPError struct {
	Endpoint   string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("github: unexpected status %d for %s", e.StatusCode, e.Endpoint)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	apiVersion string
	logger     *zap.Logger
}

func NewClient(baseURL, token, apiVersion string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		apiVersion: apiVersion,
		logger:     logger,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", c.apiVersion)
}

// nextPageURL extracts the rel="next" target from a Link response header,
// or returns "" when there is no next page.
func nextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}
	for _, link := range strings.Split(linkHeader, ",") {
		parts := strings.Split(link, ";")
		if len(parts) == 2 && strings.Contains(parts[1], `rel="next"`) {
			return strings.Trim(strings.TrimSpace(parts[0]), "<>")
		}
	}
	return ""
}

// getPage fetches one page and returns its body bytes plus the next page URL
// from the Link header. entity identifies the org/enterprise for error
// reporting.
func (c *Client) getPage(ctx context.Context, url, entity string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &HTTPError{Endpoint: entity, StatusCode: resp.StatusCode}
	}

	if s := resp.Header.Get("X-RateLimit-Remaining"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n < lowRateLimitThreshold {
			c.logger.Warn("github rate limit running low",
				zap.Int("remaining", n),
				zap.String("url", url),
			)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	internal.GithubPagesFetched.Inc()
	return body, nextPageURL(resp.Header.Get("Link")), nil
}

// Metrics fetches usage metrics for the filter's enterprise or organization,
// following pagination until exhausted. Every page's verbatim text is
// retained in the result, joined with PageBoundary.
func (c *Client) Metrics(ctx context.Context, filter models.MetricsFilter) (*models.MetricsResult, error) {
	var path, entity string
	switch {
	case filter.Enterprise != "":
		entity = filter.Enterprise
		path = fmt.Sprintf("%s/enterprises/%s/copilot/metrics", c.baseURL, filter.Enterprise)
	case filter.Organization != "":
		entity = filter.Organization
		path = fmt.Sprintf("%s/orgs/%s/copilot/metrics", c.baseURL, filter.Organization)
	default:
		return nil, fmt.Errorf("no enterprise or organization specified")
	}

	var params []string
	if filter.StartDate != nil {
		params = append(params, "since="+filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		params = append(params, "until="+filter.EndDate.Format(dateLayout))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	result := &models.MetricsResult{}
	var rawPages []string

	url := path
	for url != "" {
		body, next, err := c.getPage(ctx, url, entity)
		if err != nil {
			return nil, fmt.Errorf("fetching copilot metrics: %w", err)
		}
		rawPages = append(rawPages, string(body))

		var page []models.UsageMetric
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("unmarshaling copilot metrics: %w", err)
		}
		result.Metrics = append(result.Metrics, page...)
		url = next
	}

	result.RawAPIResponse = strings.Join(rawPages, PageBoundary)
	return result, nil
}

type seatsPage struct {
	TotalSeats int           `json:"total_seats"`
	Seats      []models.Seat `json:"seats"`
}

// Seats fetches the full seat list for the filter's enterprise or
// organization, summing total_seats and appending seats across pages. The
// snapshot's RawAPIResponse holds every page's verbatim text.
func (c *Client) Seats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error) {
	var url, entity string
	switch {
	case filter.Enterprise != "":
		entity = filter.Enterprise
		url = fmt.Sprintf("%s/enterprises/%s/copilot/billing/seats", c.baseURL, filter.Enterprise)
	case filter.Organization != "":
		entity = filter.Organization
		url = fmt.Sprintf("%s/orgs/%s/copilot/billing/seats", c.baseURL, filter.Organization)
	default:
		return nil, fmt.Errorf("no enterprise or organization specified")
	}

	now := time.Now().UTC()
	snapshot := &models.SeatsSnapshot{
		Date:         now.Format(dateLayout),
		LastUpdate:   now,
		Enterprise:   filter.Enterprise,
		Organization: filter.Organization,
		Seats:        []models.Seat{},
	}

	var rawPages []string
	for url != "" {
		body, next, err := c.getPage(ctx, url, entity)
		if err != nil {
			return nil, fmt.Errorf("fetching copilot seats: %w", err)
		}
		rawPages = append(rawPages, string(body))

		var page seatsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("unmarshaling copilot seats: %w", err)
		}
		snapshot.Seats = append(snapshot.Seats, page.Seats...)
		snapshot.TotalSeats += page.TotalSeats
		url = next
	}

	snapshot.ID = snapshot.SnapshotID()
	snapshot.RawAPIResponse = strings.Join(rawPages, PageBoundary)
	return snapshot, nil
}
