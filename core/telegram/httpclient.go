package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/dkotov/fishshop-bot/core/netutil"
)

const (
	dialTimeout       = 5 * time.Second
	tlsHandshake      = 5 * time.Second
	idleConnTimeout   = 30 * time.Second
	responseTimeout   = 15 * time.Second // must exceed the longpoll timeout
	clientTimeout     = 30 * time.Second
	keepAliveInterval = 30 * time.Second
	retryAttempts     = 3
	retryBackoff      = 2 * time.Second
)

// BuildHTTPClient returns the HTTP client the bot uses against the
// Telegram API. Longpoll getUpdates rides on the same client, so both
// response and overall timeouts stay above the poll timeout.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshake,
		ResponseHeaderTimeout: responseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout: clientTimeout,
		Transport: &netutil.RetryTransport{
			Base:       transport,
			MaxRetries: retryAttempts,
			Backoff:    retryBackoff,
		},
	}
}
