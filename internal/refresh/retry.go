package refresh

import (
	"context"
	"math/rand"
	"time"

	retrygo "github.com/avast/retry-go"
)

// Retry tuning from spec §4.6.1: 3 attempts total, 1s base delay
// doubling each time up to a 30s ceiling, with ±25% jitter so a fleet
// of concurrently-started bridges doesn't retry in lockstep.
const (
	maxAttempts  = 3
	baseDelay    = time.Second
	maxDelay     = 30 * time.Second
	jitterFactor = 0.25
)

// RefreshWithRetry runs the scrape -> extract -> validate -> persist
// sequence, retrying retryable failures with exponential backoff and
// jitter (spec §4.6.1, §4.6.4) up to maxAttempts. The idle ->
// in_progress transition happens once, before the first attempt, and
// covers the whole retry sequence including the backoff sleeps between
// attempts — a concurrent caller (a second scheduler tick, or a manual
// trigger racing an in-progress auto-refresh) must observe
// REFRESH_IN_PROGRESS for as long as any attempt of this call could
// still run, not just during the single HTTP exchange (spec §4.6.1,
// §5 "the winner releases on completion"). Terminal (non-retryable)
// errors stop the loop early and are returned as-is, leaving the
// on-disk credentials untouched.
func (m *Manager) RefreshWithRetry(ctx context.Context, isManual bool) error {
	if !m.tryAcquire(isManual) {
		return newErr(CodeRefreshInProgress, "a refresh is already in progress")
	}

	attempt := 0
	err := retrygo.Do(
		func() error {
			attempt++
			rerr := m.attempt(ctx, isManual)
			if rerr == nil {
				return nil
			}
			if refErr, ok := rerr.(*Error); ok && !refErr.Retryable() {
				return retrygo.Unrecoverable(rerr)
			}
			return rerr
		},
		retrygo.Context(ctx),
		retrygo.Attempts(uint(maxAttempts)),
		retrygo.Delay(baseDelay),
		retrygo.MaxDelay(maxDelay),
		retrygo.DelayType(func(n uint, _ error, _ *retrygo.Config) time.Duration {
			d := maxDelay
			if n < 5 {
				d = baseDelay << n
			}
			if d > maxDelay {
				d = maxDelay
			}
			return time.Duration(float64(d) * (1 + jitterFactor*(2*rand.Float64()-1)))
		}),
		retrygo.LastErrorOnly(true),
		retrygo.OnRetry(func(n uint, err error) {
			if m.log != nil {
				m.log.Warn("refresh attempt failed, retrying", map[string]any{
					"attempt": n + 1,
					"error":   err.Error(),
				})
			}
		}),
	)
	if err == nil {
		m.finishSuccess()
		return nil
	}

	refErr, ok := err.(*Error)
	if !ok {
		refErr = newErr(CodeUnknown, err.Error())
	}
	m.finishFailure(refErr, attempt)
	if m.log != nil {
		fields := map[string]any{"code": string(refErr.Code), "error": refErr.Message, "attempts": attempt}
		if refErr.Code == CodeSessionRevoked {
			fields["guidance"] = "user-mode session was revoked; re-authenticate by setting SLACK_USER_TOKEN and SLACK_COOKIE_D from a fresh browser session"
		}
		m.log.Error("refresh exhausted retries", fields)
	}
	return refErr
}
