// Package socrata provides a minimal client for SODA-style open-data APIs.
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/ownership-cli/internal/resilience"
)

// Row is one loosely-typed record returned by a dataset query. SODA returns
// text fields as strings and leaves numerics as strings or numbers depending
// on the dataset schema, so callers convert per field.
type Row map[string]any

// String returns the named field as a trimmed string, or "" if absent.
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Float returns the named field parsed as a float64, or 0 if absent or
// unparseable.
func (r Row) Float(field string) float64 {
	v, ok := r[field]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns the named field parsed as an int, or 0.
func (r Row) Int(field string) int {
	return int(r.Float(field))
}

// Query holds the SoQL parameters for one dataset select.
type Query struct {
	Select string
	Where  string
	Order  string
	Limit  int
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Select != "" {
		v.Set("$select", q.Select)
	}
	if q.Where != "" {
		v.Set("$where", q.Where)
	}
	if q.Order != "" {
		v.Set("$order", q.Order)
	}
	if q.Limit > 0 {
		v.Set("$limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Client defines the dataset query operation.
type Client interface {
	// Select runs a SoQL query against the dataset and returns its rows.
	Select(ctx context.Context, dataset string, q Query) ([]Row, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *httpClient) { c.baseURL = baseURL }
}

// WithAppToken sets the X-App-Token header for higher rate limits.
func WithAppToken(token string) Option {
	return func(c *httpClient) { c.appToken = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit caps requests per second against the host.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

type httpClient struct {
	baseURL  string
	appToken string
	http     *http.Client
	limiter  *rate.Limiter
	retry    resilience.Config
}

// NewClient creates a SODA client.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(8), 2),
		retry:   resilience.DefaultConfig(),
	}
	c.retry.OnRetry = resilience.Logger("socrata", "select")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Select(ctx context.Context, dataset string, q Query) ([]Row, error) {
	if dataset == "" {
		return nil, eris.New("socrata: dataset id is required")
	}

	endpoint := fmt.Sprintf("%s/resource/%s.json?%s", c.baseURL, dataset, q.values().Encode())

	return resilience.Do(ctx, c.retry, func(ctx context.Context) ([]Row, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, eris.Wrap(err, "socrata: build request")
		}
		req.Header.Set("Accept", "application/json")
		if c.appToken != "" {
			req.Header.Set("X-App-Token", c.appToken)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "socrata: do request")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		if err != nil {
			return nil, eris.Wrap(err, "socrata: read body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("socrata: dataset %s returned %d", dataset, resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var rows []Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, eris.Wrapf(err, "socrata: decode dataset %s", dataset)
		}
		return rows, nil
	})
}
