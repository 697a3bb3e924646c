package databend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Scoopit/mysql2databend/pkg/version"
)

const (
	queryPath = "/v1/query"

	// QueryIDHeader carries the client-chosen query id.
	QueryIDHeader = "X-DATABEND-QUERY-ID"

	maxErrorBody = 4096
)

// Client talks to one Databend query endpoint.
type Client struct {
	endpoint   *url.URL
	user       string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient returns a client for the Databend query service at queryURI,
// e.g. http://localhost:8000. Any path on queryURI is replaced by /v1/query.
func NewClient(queryURI, user, password string, opts ...Option) (*Client, error) {
	base, err := url.Parse(queryURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query URI: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported query URI scheme %q", base.Scheme)
	}

	c := &Client{
		endpoint:   base.ResolveReference(&url.URL{Path: queryPath}),
		user:       user,
		password:   password,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Query submits req and decodes the first response page. Queries the server
// reports as Failed are returned without error; use QueryResponse.Err.
func (c *Client) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	httpReq.Header.Set(QueryIDHeader, uuid.NewString())
	httpReq.SetBasicAuth(c.user, c.password)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send query: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	var out QueryResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &out, nil
}

// Execute runs sql in database (empty for the server default) and waits up
// to wait for it to finish, DefaultWaitTimeSecs when wait is under a second.
// Failed queries are returned as errors.
func (c *Client) Execute(ctx context.Context, sql, database string, wait time.Duration) (*QueryResponse, error) {
	req := &QueryRequest{SQL: sql}
	if database != "" {
		req.Session = &SessionConf{Database: database}
	}
	secs := uint32(DefaultWaitTimeSecs)
	if wait >= time.Second {
		secs = uint32(wait / time.Second)
	}
	req.Pagination = &PaginationConf{WaitTimeSecs: &secs}

	res, err := c.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return res, err
	}
	return res, nil
}
