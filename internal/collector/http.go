package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the transport shared by the HTTP fetchers.
type HTTPOptions struct {
	ProxyURL   string
	Timeout    time.Duration
	MaxRetries uint64
	RetryWait  time.Duration // first backoff interval
	MinSpacing time.Duration // minimum gap between requests, 0 = unlimited
}

// StatusError is a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.StatusCode, e.Body)
}

type httpClient struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	retryWait  time.Duration
}

func newHTTPClient(opts HTTPOptions) *httpClient {
	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = 500 * time.Millisecond
	}

	c := &httpClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		maxRetries: opts.MaxRetries,
		retryWait:  opts.RetryWait,
	}
	if opts.MinSpacing > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.MinSpacing), 1)
	}
	return c
}

// getJSON GETs endpoint and decodes the body into out. Transport errors and
// 5xx/429 responses are retried with exponential backoff; other statuses are
// returned immediately as *StatusError.
func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) error {
	var body []byte
	operation := func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			serr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(b), 200)}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return serr
			}
			return backoff.Permanent(serr)
		}
		body = b
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = c.retryWait
	strategy.MaxElapsedTime = 30 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(strategy, c.maxRetries), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
