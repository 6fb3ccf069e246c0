package monitoring

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/bissquit/gov-status/internal/pkg/ctxlog"
)

// PollerConfig contains poller configuration.
type PollerConfig struct {
	Interval          time.Duration
	Timeout           time.Duration
	RetryAttempts     int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultPollerConfig returns default poller configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:          time.Minute,
		Timeout:           5 * time.Second,
		RetryAttempts:     3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Poller periodically checks every monitored service and keeps the latest
// statuses. Until the first poll completes, the snapshot is the catalog as loaded.
type Poller struct {
	config   PollerConfig
	checker  Checker
	services []domain.ServiceDescriptor

	mu         sync.RWMutex
	snapshot   []domain.ServiceDescriptor
	lastUpdate time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a poller over the given services.
func NewPoller(config PollerConfig, checker Checker, services []domain.ServiceDescriptor) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 1
	}

	return &Poller{
		config:   config,
		checker:  checker,
		services: slices.Clone(services),
		snapshot: slices.Clone(services),
		now:      time.Now,
		sleep:    sleepCtx,
		stopCh:   make(chan struct{}),
	}
}

// Start polls once immediately and then on every interval until ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	slog.Info("starting status poller",
		"services", len(p.services),
		"interval", p.config.Interval,
		"timeout", p.config.Timeout,
		"retry_attempts", p.config.RetryAttempts,
	)

	p.wg.Add(1)
	go p.run(ctx)
}

// Stop halts polling and waits for an in-flight poll to finish.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	slog.Info("status poller stopped")
}

// Interval returns the configured poll interval.
func (p *Poller) Interval() time.Duration {
	return p.config.Interval
}

// Snapshot returns a copy of the latest statuses and when they were taken.
// The time is zero if no poll has completed yet.
func (p *Poller) Snapshot() ([]domain.ServiceDescriptor, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.snapshot), p.lastUpdate
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	p.PollOnce(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce checks all services concurrently and replaces the snapshot.
func (p *Poller) PollOnce(ctx context.Context) {
	results := make([]domain.ServiceDescriptor, len(p.services))

	var wg sync.WaitGroup
	for i := range p.services {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.checkService(ctx, p.services[i])
		}(i)
	}
	wg.Wait()

	p.mu.Lock()
	p.snapshot = results
	p.lastUpdate = p.now()
	p.mu.Unlock()
}

func (p *Poller) checkService(ctx context.Context, svc domain.ServiceDescriptor) domain.ServiceDescriptor {
	start := time.Now()
	ctx = ctxlog.With(ctx, "service_id", svc.ID)

	status, err := p.checkWithRetry(ctx, svc)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("status check failed", "error", err)
		if errors.Is(err, ErrUnreachable) {
			status = domain.ServiceStatusOutage
		} else {
			status = domain.ServiceStatusUnknown
		}
	}

	checked := p.now()
	svc.Status = status
	svc.LastChecked = &checked
	if status != domain.ServiceStatusUnknown {
		uptime := 0.0
		if status != domain.ServiceStatusOutage {
			uptime = 100
		}
		svc.Uptime = &uptime
	}

	recordCheck(svc.ID, string(status), time.Since(start))
	return svc
}

func (p *Poller) checkWithRetry(ctx context.Context, svc domain.ServiceDescriptor) (domain.ServiceStatus, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		status, err := p.checkAttempt(ctx, svc)
		if err == nil {
			return status, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == p.config.RetryAttempts {
			break
		}

		backoff := p.backoff(attempt)
		ctxlog.FromContext(ctx).Debug("status check failed, retrying",
			"attempt", attempt,
			"max_attempts", p.config.RetryAttempts,
			"backoff", backoff,
			"error", err,
		)
		recordRetry(svc.ID)

		if !p.sleep(ctx, backoff) {
			return domain.ServiceStatusUnknown, ctx.Err()
		}
	}

	return domain.ServiceStatusUnknown, lastErr
}

func (p *Poller) checkAttempt(ctx context.Context, svc domain.ServiceDescriptor) (domain.ServiceStatus, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}
	return p.checker.Check(ctx, svc)
}

// backoff returns the delay after the given failed attempt, capped at MaxBackoff.
func (p *Poller) backoff(attempt int) time.Duration {
	backoff := float64(p.config.InitialBackoff)
	for i := 1; i < attempt; i++ {
		backoff *= p.config.BackoffMultiplier
	}

	if p.config.MaxBackoff > 0 && backoff > float64(p.config.MaxBackoff) {
		backoff = float64(p.config.MaxBackoff)
	}

	return time.Duration(backoff)
}

// sleepCtx waits for d or context cancellation. Returns false if cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
