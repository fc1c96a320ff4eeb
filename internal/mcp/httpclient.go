package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/cyclelift/internal/analytics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/prescription"
	"github.com/claude/cyclelift/internal/tracker"
)

// HTTPClient implements DataSource by calling the CycleLift REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, tracker.ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("httpclient: %s: %w: %s", path, tracker.ErrInvalidInput, body)
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// timeParams encodes the non-zero bounds of a window.
func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	if !start.IsZero() {
		v.Set("start", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		v.Set("end", end.Format(time.RFC3339))
	}
	return v
}

func exercisePath(id, suffix string) string {
	return "/api/v1/exercises/" + url.PathEscape(id) + suffix
}

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := c.get(ctx, "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) Day(ctx context.Context, planID string, cycle, day int) (*prescription.DayPrescription, error) {
	params := url.Values{}
	if cycle != 0 {
		params.Set("cycle", strconv.Itoa(cycle))
	}
	path := "/api/v1/plans/" + url.PathEscape(planID) + "/days/" + strconv.Itoa(day)

	var d prescription.DayPrescription
	if err := c.get(ctx, path, params, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) History(ctx context.Context, exerciseID string, start, end time.Time) ([]analytics.Entry, error) {
	var entries []analytics.Entry
	if err := c.get(ctx, exercisePath(exerciseID, "/history"), timeParams(start, end), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) Rollup(ctx context.Context, exerciseID string, agg tracker.Aggregation, start, end time.Time) ([]analytics.Bucket, error) {
	params := timeParams(start, end)
	params.Set("agg", string(agg))

	var buckets []analytics.Bucket
	if err := c.get(ctx, exercisePath(exerciseID, "/history"), params, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (c *HTTPClient) SessionMedals(ctx context.Context, date string) (map[string]map[int][]analytics.Medal, error) {
	var medals map[string]map[int][]analytics.Medal
	if err := c.get(ctx, "/api/v1/sessions/"+url.PathEscape(date)+"/medals", nil, &medals); err != nil {
		return nil, err
	}
	return medals, nil
}

func (c *HTTPClient) GoalTrend(ctx context.Context, exerciseID string, start, end time.Time) (*tracker.GoalTrendView, error) {
	var view tracker.GoalTrendView
	if err := c.get(ctx, exercisePath(exerciseID, "/goal-trend"), timeParams(start, end), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *HTTPClient) WeeklySets(ctx context.Context, exerciseID string) ([]analytics.WeekSets, error) {
	var series []analytics.WeekSets
	if err := c.get(ctx, exercisePath(exerciseID, "/weekly-sets"), nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}
