// Package httpx builds outbound HTTP clients with transient-error retries.
package httpx

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
)

// Options tune a client built by NewClient.
type Options struct {
	// Timeout bounds the whole request including body read.
	Timeout time.Duration
	// ResponseHeaderTimeout bounds the wait for response headers. Zero disables it.
	ResponseHeaderTimeout time.Duration
	// Retries is the number of extra attempts after a transient network failure.
	Retries int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
	// Base replaces the default transport. Used by tests.
	Base http.RoundTripper
}

// TelegramOptions returns the settings used for Bot API calls.
func TelegramOptions() Options {
	return Options{
		Timeout:               30 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		Retries:               3,
		Backoff:               2 * time.Second,
	}
}

// NewClient returns an HTTP client with a tuned transport and retry policy.
func NewClient(opts Options) *http.Client {
	base := opts.Base
	if base == nil {
		base = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshake,
			ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	var rt http.RoundTripper = base
	if opts.Retries > 0 {
		rt = &retryTransport{
			base:       base,
			maxRetries: opts.Retries,
			backoff:    opts.Backoff,
		}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := t.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		currReq := req
		if attempt > 1 {
			currReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				currReq.Body = body
			} else if req.Body != nil && req.Body != http.NoBody {
				return nil, lastErr
			}
		}

		resp, err := t.base.RoundTrip(currReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !ShouldRetry(err) || attempt == attempts {
			break
		}

		delay := t.backoff * time.Duration(attempt)
		if delay <= 0 {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}
