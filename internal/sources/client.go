// Package sources holds the HTTP plumbing shared by the catalog adapters.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
}

// Client is a rate limited HTTP client that stamps every request with a
// fixed set of headers.
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Header     http.Header
}

// NewClient allows one request per interval. A zero interval disables the
// limiter.
func NewClient(interval time.Duration, header http.Header) *Client {
	c := &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Header:     header,
	}
	if interval > 0 {
		c.Limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return c
}

// Do waits for the limiter, sets the client headers and sends req.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	for k, v := range c.Header {
		for _, s := range v {
			req.Header.Set(k, s)
		}
	}
	return c.HTTPClient.Do(req.WithContext(ctx))
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, url); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// GetJSON fetches url and decodes the body into result.
func (c *Client) GetJSON(ctx context.Context, url string, result any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetBody fetches url and returns the open body. The caller closes it.
func (c *Client) GetBody(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response, url string) error {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%s: %w", url, ErrUnauthorized)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", url, ErrRateLimited)
	default:
		return &StatusError{Code: code, URL: url}
	}
}
