// Package monitoring polls monitored services for their current status.
package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
	"golang.org/x/time/rate"
)

// Checker determines the current status of a service.
type Checker interface {
	Check(ctx context.Context, svc domain.ServiceDescriptor) (domain.ServiceStatus, error)
}

// StaticChecker reports the status configured in the catalog.
// Official status pages publish no machine-readable feed, so this is the default.
type StaticChecker struct{}

// Check returns the descriptor's configured status.
func (StaticChecker) Check(_ context.Context, svc domain.ServiceDescriptor) (domain.ServiceStatus, error) {
	return svc.Status, nil
}

const (
	defaultUserAgent = "gov-status-monitor/1.0"
	defaultRateLimit = 2.0
)

// HTTPCheckerConfig holds HTTP health check configuration.
type HTTPCheckerConfig struct {
	UserAgent string
	// RateLimit is the maximum number of probes per second across all services.
	RateLimit float64
	Client    *http.Client
}

// HTTPChecker probes a service's URL with a HEAD request.
// A reachable service keeps its configured status; an error response means outage.
type HTTPChecker struct {
	config  HTTPCheckerConfig
	limiter *rate.Limiter
}

// NewHTTPChecker creates a new HTTP health checker.
func NewHTTPChecker(config HTTPCheckerConfig) *HTTPChecker {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.RateLimit <= 0 {
		config.RateLimit = defaultRateLimit
	}
	if config.Client == nil {
		// Per-attempt deadlines come from the poller's context.
		config.Client = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPChecker{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Check performs a HEAD request against svc.URL.
func (c *HTTPChecker) Check(ctx context.Context, svc domain.ServiceDescriptor) (domain.ServiceStatus, error) {
	if svc.URL == "" {
		return svc.Status, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ServiceStatusUnknown, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, svc.URL, nil)
	if err != nil {
		return domain.ServiceStatusUnknown, NewNonRetryableError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.config.Client.Do(req)
	if err != nil {
		return domain.ServiceStatusUnknown, NewRetryableError(fmt.Errorf("%w: %v", ErrUnreachable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.ServiceStatusOutage, nil
	}

	return svc.Status, nil
}
