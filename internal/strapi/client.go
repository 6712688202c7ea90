// Package strapi implements the commerce backend gateway over the
// Strapi v4 REST API: catalog reads, cart and line item writes, and
// client registration at checkout.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	"github.com/dkotov/fishshop-bot/core/logger"
	"github.com/dkotov/fishshop-bot/core/netutil"
	"log/slog"
)

const (
	defaultTimeoutSeconds = 10
	defaultRetryAttempts  = 2
	defaultRetryBackoff   = time.Second
)

// Client talks to a single Strapi instance using a bearer token.
type Client struct {
	host  string
	token string
	http  *http.Client
}

// New builds a gateway client from config. The underlying HTTP client
// retries transient dial/timeout failures; HTTP status codes are never
// retried here.
func New(cfg coreconfig.StrapiConfig) *Client {
	timeoutSec := cfg.TimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = defaultTimeoutSeconds
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		host:  strings.TrimRight(cfg.Host, "/"),
		token: cfg.Token,
		http: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
			Transport: &netutil.RetryTransport{
				Base:       transport,
				MaxRetries: defaultRetryAttempts,
				Backoff:    defaultRetryBackoff,
			},
		},
	}
}

// do performs one request against the API and decodes a JSON body into
// out when provided. It returns the HTTP status code so callers can
// map 404 and other statuses onto domain errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) (int, error) {
	endpoint := c.host + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("strapi: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("strapi: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	took := time.Since(start)
	if err != nil {
		logger.LogEvent(ctx, logger.Strapi, slog.LevelWarn, "strapi.request",
			slog.String("status", "fail"),
			slog.String("op", method+" "+path),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("strapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.LogEvent(ctx, logger.Strapi, slog.LevelDebug, "strapi.request",
		slog.String("status", "ok"),
		slog.String("op", method+" "+path),
		slog.Int("http_code", resp.StatusCode),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("strapi: decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
