package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// VersionCache is a scoped cache of full version lists keyed by (tenant, agent).
type VersionCache interface {
	GetList(ctx context.Context, tenantID string, agentID int64) ([]*domain.AgentVersion, bool, error)
	Generation(ctx context.Context, tenantID string, agentID int64) (int64, error)
	SetList(ctx context.Context, tenantID string, agentID int64, gen int64, versions []*domain.AgentVersion) (bool, error)
	Invalidate(ctx context.Context, tenantID string, agentID int64) error
}

// ChangeNotifier broadcasts committed version changes.
type ChangeNotifier interface {
	NotifyVersionChanged(ctx context.Context, change domain.VersionChange) error
}

// ReadRetry configures retries of idempotent reads on transient failures.
type ReadRetry struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultReadRetry is used when a zero ReadRetry is supplied.
var DefaultReadRetry = ReadRetry{Attempts: 3, Delay: 50 * time.Millisecond}

// retryRead runs fn until it succeeds, fails with a non-transient error or attempts run out.
// Never use it for mutations.
func retryRead(ctx context.Context, policy ReadRetry, fn func() error) error {
	if policy.Attempts == 0 {
		policy = DefaultReadRetry
	}

	return retry.New(
		retry.Context(ctx),
		retry.Attempts(policy.Attempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrTransient)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying read after transient failure", "attempt", n+1, "error", err)
		}),
	).Do(fn)
}
