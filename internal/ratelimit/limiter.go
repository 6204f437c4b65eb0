// Package ratelimit gates requests with a sliding window counted over a
// persisted event log. Quotas are configured per endpoint and subscription
// tier; the window is the closed-open interval [now-window, now).
package ratelimit

import (
	"context"
	"time"

	"github.com/jlin/promptfinder/internal/config"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/keylock"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is how long until the oldest counted request leaves the
	// window. Positive iff the request was denied.
	RetryAfter time.Duration
	// Remaining is the number of requests left in the window after this one.
	Remaining int
}

// Limiter admits or denies requests per (user, endpoint) against the
// configured tier quotas. Check-and-record is serialized per key so a burst
// from one user cannot slip past the threshold.
type Limiter struct {
	logs   *repository.RequestLogRepository
	cfg    *config.RateLimitConfig
	locks  *keylock.KeyLock
	logger *logger.Logger

	// now is injectable for tests
	now func() time.Time
}

// NewLimiter creates a new Limiter backed by the request log repository.
func NewLimiter(logs *repository.RequestLogRepository, cfg *config.RateLimitConfig, log *logger.Logger) *Limiter {
	return &Limiter{
		logs:   logs,
		cfg:    cfg,
		locks:  keylock.New(),
		logger: log,
		now:    time.Now,
	}
}

// Admit checks the caller's quota for the endpoint and, when allowed,
// records this request. The recorded event stands regardless of whether the
// downstream operation later succeeds, so failed generations still consume
// quota and cannot be retried in a tight loop.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: verified caller identity.
//   - endpoint: endpoint identifier (e.g. "generate").
//   - tier: caller's subscription tier.
// Returns:
//   - *Decision: allow/deny plus retry hint.
//   - error: non-nil only on storage failure.
func (l *Limiter) Admit(ctx context.Context, userID, endpoint string, tier domain.SubscriptionTier) (*Decision, error) {
	rule, ok := l.cfg.Rule(endpoint, string(tier))
	if !ok || rule.Limit <= 0 {
		// Endpoint has no configured quota
		return &Decision{Allowed: true, Remaining: -1}, nil
	}

	window := time.Duration(rule.WindowSeconds) * time.Second
	key := userID + "\x00" + endpoint

	var decision *Decision
	var opErr error

	l.locks.Do(key, func() {
		now := l.now()
		cutoff := now.Add(-window)

		count, err := l.logs.CountSince(ctx, userID, endpoint, cutoff)
		if err != nil {
			opErr = err
			return
		}

		if count >= int64(rule.Limit) {
			oldest, found, err := l.logs.OldestSince(ctx, userID, endpoint, cutoff)
			if err != nil {
				opErr = err
				return
			}
			retryAfter := window
			if found {
				retryAfter = oldest.Add(window).Sub(now)
			}
			if retryAfter <= 0 {
				retryAfter = time.Second
			}
			decision = &Decision{Allowed: false, RetryAfter: retryAfter}
			return
		}

		if err := l.logs.Record(ctx, userID, endpoint, now); err != nil {
			opErr = err
			return
		}
		decision = &Decision{Allowed: true, Remaining: rule.Limit - int(count) - 1}
	})

	if opErr != nil {
		return nil, opErr
	}

	if !decision.Allowed {
		l.logger.WithFields(logger.Fields{
			logger.FieldUserID:   userID,
			logger.FieldEndpoint: endpoint,
			"retry_after":        decision.RetryAfter.String(),
		}).Info("request denied by rate limiter")
	}

	return decision, nil
}

// MaxWindow returns the longest configured window across all endpoints and
// tiers. Events older than this are dead weight and safe to prune.
func (l *Limiter) MaxWindow() time.Duration {
	max := time.Duration(0)
	for _, tiers := range l.cfg.Endpoints {
		for _, rule := range tiers {
			if w := time.Duration(rule.WindowSeconds) * time.Second; w > max {
				max = w
			}
		}
	}
	return max
}

// PruneLoop deletes expired events every interval until ctx is cancelled.
// Run it from main as a background goroutine.
func (l *Limiter) PruneLoop(ctx context.Context, interval time.Duration) {
	retention := l.MaxWindow()
	if retention == 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := l.now().Add(-retention)
			pruned, err := l.logs.DeleteBefore(ctx, cutoff)
			if err != nil {
				l.logger.WithError(err).Warn("failed to prune request log")
				continue
			}
			if pruned > 0 {
				l.logger.WithField(logger.FieldCount, pruned).Debug("pruned expired request log events")
			}
		}
	}
}

// SetClock overrides the limiter's time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}
