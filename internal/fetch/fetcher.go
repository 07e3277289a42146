// Package fetch implements the paced, identity-rotating HTTP fetcher built
// on the Colly collector.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/telemetry"
)

// Pacer gates request admission; see internal/pacing.
type Pacer interface {
	Wait(ctx context.Context, url string) error
}

// Config controls Client behavior.
type Config struct {
	// DefaultTimeout applies when the caller passes a zero timeout.
	DefaultTimeout time.Duration
	// InsecureRetry enables the single relaxed-verification retry after a
	// transport/TLS failure. This backend is the only one that does this.
	InsecureRetry bool
	// UserAgents overrides the built-in identity pool.
	UserAgents []string
}

// Client fetches single URLs through Colly with browser-like identity.
// Failures are classified per the collector error taxonomy; non-200
// responses are surfaced as errors and never retried here.
type Client struct {
	cfg      Config
	pacer    Pacer
	pool     *IdentityPool
	logger   *zap.Logger
	verified *colly.Collector
	insecure *colly.Collector
}

// New builds a Client. pacer may be nil for unpaced use (tests, one-shot
// URL checks).
func New(cfg Config, pacer Pacer, logger *zap.Logger) *Client {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	verified := colly.NewCollector(colly.Async(false), colly.IgnoreRobotsTxt())
	verified.WithTransport(newTransport(false))
	insecure := colly.NewCollector(colly.Async(false), colly.IgnoreRobotsTxt())
	insecure.WithTransport(newTransport(true))
	return &Client{
		cfg:      cfg,
		pacer:    pacer,
		pool:     NewIdentityPool(cfg.UserAgents),
		logger:   logger,
		verified: verified,
		insecure: insecure,
	}
}

// Fetch performs one paced GET. On a non-200 response the returned error is
// a FetchError carrying the status, and the result still holds the status
// code and any body bytes so per-call-site handling (block detection) can
// inspect them.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) (collector.FetchResult, error) {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, url); err != nil {
			return collector.FetchResult{}, fmt.Errorf("fetch %s: %w", url, err)
		}
	}
	if timeout <= 0 {
		timeout = c.cfg.DefaultTimeout
	}

	result, err := c.attempt(ctx, c.verified, url, timeout)
	if err == nil {
		return result, nil
	}

	fe := collector.ClassifyFetchError(url, err)
	if fe.Kind == collector.FailureTransport && c.cfg.InsecureRetry {
		c.logger.Warn("transport failure, retrying with relaxed certificate verification",
			zap.String("url", url), zap.Error(err))
		retried, retryErr := c.attempt(ctx, c.insecure, url, timeout)
		if retryErr == nil {
			retried.Insecure = true
			return retried, nil
		}
		fe = collector.ClassifyFetchError(url, retryErr)
	}
	telemetry.CountFetchFailure(string(fe.Kind))
	return result, fe
}

// attempt runs one collector visit, capturing response or typed failure.
func (c *Client) attempt(ctx context.Context, base *colly.Collector, url string, timeout time.Duration) (collector.FetchResult, error) {
	cc := base.Clone()
	cc.UserAgent = c.pool.Next()
	cc.SetRequestTimeout(timeout)

	var (
		result   collector.FetchResult
		fetchErr error
	)
	start := time.Now()

	cc.OnRequest(func(r *colly.Request) {
		for key, values := range browserHeaders() {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})
	cc.OnResponse(func(r *colly.Response) {
		result = collector.FetchResult{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    headersOf(r),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	cc.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			// Non-2xx: keep status and body for the caller, classify as
			// an HTTP status failure. Colly does not follow up on these
			// and neither do we.
			result = collector.FetchResult{
				URL:        url,
				StatusCode: r.StatusCode,
				Headers:    headersOf(r),
				Body:       append([]byte(nil), r.Body...),
				Duration:   time.Since(start),
			}
			fetchErr = collector.NewHTTPStatusError(url, r.StatusCode)
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- cc.Visit(url)
	}()
	select {
	case <-ctx.Done():
		return collector.FetchResult{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case visitErr := <-done:
		if fetchErr != nil {
			return result, fetchErr
		}
		if visitErr != nil {
			return collector.FetchResult{}, visitErr
		}
		return result, nil
	}
}

func headersOf(r *colly.Response) http.Header {
	if r.Headers == nil {
		return http.Header{}
	}
	return r.Headers.Clone()
}

func newTransport(insecure bool) *http.Transport {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- deliberate single-retry fallback
	}
	return t
}
