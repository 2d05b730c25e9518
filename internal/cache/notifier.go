package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Notifier publishes version changes on ChannelVersionChanged.
type Notifier struct {
	rdb redis.Cmdable
	cb  *gobreaker.CircuitBreaker
}

// NewNotifier creates a Notifier.
func NewNotifier(rdb redis.Cmdable) *Notifier {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-version-notifier",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Notifier{rdb: rdb, cb: cb}
}

// NotifyVersionChanged publishes change as JSON.
func (n *Notifier) NotifyVersionChanged(ctx context.Context, change domain.VersionChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode version change: %w", err)
	}

	_, err = n.cb.Execute(func() (interface{}, error) {
		return nil, n.rdb.Publish(ctx, ChannelVersionChanged, payload).Err()
	})
	if err != nil {
		return fmt.Errorf("publish version change: %w", err)
	}
	return nil
}
