// Package backend talks to the submissions service that owns the news data.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/newsviews/internal/metrics"
	"github.com/deusflow/newsviews/internal/news"
	"github.com/deusflow/newsviews/internal/retry"
	"github.com/deusflow/newsviews/internal/rss"
)

var (
	ErrRequestCreate      = errors.New("failed to create new request")
	ErrRequestPerform     = errors.New("could not perform http request")
	ErrRequestInvalidCode = errors.New("invalid response code returned from request")
	ErrRequestDecode      = errors.New("failed to decode http response")
	ErrResponseBody       = errors.New("failed to read response body")
	ErrNotFound           = errors.New("entity not found")
	ErrResponseTooLarge   = errors.New("response body exceeds size limit")
)

const (
	maxErrorBody = 2048

	// DefaultMaxBodyBytes bounds how much of a backend response is read
	DefaultMaxBodyBytes int64 = 10 << 20
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Backend returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{ErrRequestInvalidCode, ErrNotFound}
	}
	return []error{ErrRequestInvalidCode}
}

// Query is the filter and window sent to the submissions endpoint
type Query struct {
	Skip     int
	Limit    int
	Status   string
	City     string
	Category string
}

// Values encodes the query, leaving out empty filters
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	retry        retry.RetryConfig
	maxBodyBytes int64
}

type Option func(*Client)

// WithMaxBodyBytes caps the response size. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewClient creates a backend client. A zero timeout means requests are only
// bounded by their context.
func NewClient(baseURL string, timeout time.Duration, retryCfg retry.RetryConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		retry:        retryCfg,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submissions fetches one page of submissions
func (c *Client) Submissions(ctx context.Context, q Query) (any, error) {
	return c.get(ctx, "/submissions", q.Values())
}

// News fetches the unfiltered news list
func (c *Client) News(ctx context.Context) (any, error) {
	return c.get(ctx, "/news", nil)
}

// NewsByID fetches a single news record
func (c *Client) NewsByID(ctx context.Context, id string) (any, error) {
	return c.get(ctx, "/news/"+url.PathEscape(id), nil)
}

func (c *Client) get(ctx context.Context, path string, values url.Values) (any, error) {
	endpoint := c.baseURL + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	var payload any
	start := time.Now()

	err := retry.WithRetry(ctx, c.retry, func() error {
		var err error
		payload, err = c.fetch(ctx, endpoint)
		return err
	})

	metrics.Global.RecordBackendCall(time.Since(start), healthError(err))

	if err != nil {
		slog.Error("backend request failed", "url", endpoint, "error", err)
		return nil, err
	}

	slog.Debug("backend request ok", "url", endpoint, "duration", time.Since(start))
	return payload, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(errors.Join(err, ErrRequestCreate))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(err, ErrRequestPerform)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, errors.Join(err, ErrResponseBody)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, retry.Permanent(statusErr)
		}
		return nil, statusErr
	}

	if int64(len(body)) > c.maxBodyBytes {
		return nil, retry.Permanent(fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBodyBytes))
	}

	payload, err := decodeBody(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, retry.Permanent(errors.Join(err, ErrRequestDecode))
	}

	return payload, nil
}

// healthError drops client errors: a 4xx means the backend answered, so it
// does not count against service health.
func healthError(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}

func decodeBody(contentType string, body []byte) (any, error) {
	if rss.LooksLikeFeed(contentType, body) {
		return rss.ParseFeed(body)
	}
	return news.DecodePayload(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
