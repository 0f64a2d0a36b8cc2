package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"pagepulse/internal/log"
	"pagepulse/internal/metrics"
)

const (
	DefaultUserAgent    = "PagePulse SEO Bot"
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// PageFetcher retrieves the HTML of a page and the time it took.
type PageFetcher interface {
	FetchPage(ctx context.Context, targetURL string) (string, int64, error)
}

type FetcherOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// HTTPFetcher performs a single GET per call. It holds no per-request state and is
// safe for concurrent use.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:        http.ProxyFromEnvironment,
				MaxIdleConns: 20,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
			Timeout: opts.Timeout,
		},
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// FetchPage issues one GET for targetURL and returns the decoded body with the
// elapsed time in milliseconds. Every failure, including an empty body, wraps
// ErrPageUnavailable.
func (f *HTTPFetcher) FetchPage(ctx context.Context, targetURL string) (string, int64, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: build request: %w", ErrPageUnavailable, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Logger.Error("failed to fetch URL",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", 0, fmt.Errorf("%w: request failed: %w", ErrPageUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Logger.Warn("unexpected status code",
			zap.String("url", targetURL),
			zap.Int("status_code", resp.StatusCode),
		)
		return "", 0, fmt.Errorf("%w: unexpected status code: %d", ErrPageUnavailable, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, f.maxBodyBytes)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		log.Logger.Debug("charset detection failed, reading body as-is",
			zap.String("url", targetURL),
			zap.String("content_type", resp.Header.Get("Content-Type")),
		)
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		log.Logger.Warn("failed to read response body",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", 0, fmt.Errorf("%w: read body: %w", ErrPageUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		log.Logger.Warn("empty response body", zap.String("url", targetURL))
		return "", 0, fmt.Errorf("%w: empty body", ErrPageUnavailable)
	}

	elapsed := time.Since(start)
	metrics.FetchDuration.Observe(elapsed.Seconds())

	log.Logger.Info("successfully fetched page",
		zap.String("url", targetURL),
		zap.Int("content_length", len(body)),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	return string(body), elapsed.Milliseconds(), nil
}
