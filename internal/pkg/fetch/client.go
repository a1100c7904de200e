// Package fetch downloads upstream pages, JSON payloads and zip archives.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetries       = 3
	defaultRetryInterval = 500 * time.Millisecond
	defaultUserAgent     = "canlotto/1.0"
)

// Client performs bounded GET requests. Transport faults are retried with a
// constant backoff; any received non-success status is final.
type Client struct {
	http          *http.Client
	retries       uint64
	retryInterval time.Duration
	userAgent     string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithRetries(n int, interval time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
		if interval > 0 {
			c.retryInterval = interval
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:          &http.Client{Timeout: defaultTimeout},
		retries:       defaultRetries,
		retryInterval: defaultRetryInterval,
		userAgent:     defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for a non-success upstream status. It unwraps to
// ErrNotFound for 404 and to ErrSourceUnavailable otherwise.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return constants.ErrNotFound
	}
	return constants.ErrSourceUnavailable
}

// Get returns the body of url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("new request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			logger.Warnf(ctx, "GET %s: %s", url, err.Error())
			return fmt.Errorf("http.Do: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return backoff.Permanent(&StatusError{URL: url, StatusCode: resp.StatusCode, Body: snippet(data)})
		}

		body = data
		return nil
	}

	err := backoff.Retry(
		operation,
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.retries),
			ctx,
		),
	)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, err
		}
		return nil, fmt.Errorf("GET %s: %w: %w", url, constants.ErrSourceUnavailable, err)
	}

	return body, nil
}

// Document fetches url and parses it as HTML.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}
	return doc, nil
}

// JSON fetches url and decodes the body into dst.
func (c *Client) JSON(ctx context.Context, url string, dst interface{}) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err = sonic.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w: %s", url, constants.ErrMalformedSource, err.Error())
	}
	return nil
}

func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
