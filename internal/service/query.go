package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// VersionQueryService serves read-only version queries.
type VersionQueryService struct {
	store   repository.Reader
	builder *SnapshotBuilder
	cache   VersionCache
	metrics *metrics.Metrics
	retry   ReadRetry
}

// NewVersionQueryService creates a new VersionQueryService. cache and m may be nil.
func NewVersionQueryService(
	store repository.Reader,
	cache VersionCache,
	m *metrics.Metrics,
	policy ReadRetry,
) *VersionQueryService {
	return &VersionQueryService{
		store:   store,
		builder: NewSnapshotBuilder(),
		cache:   cache,
		metrics: m,
		retry:   policy,
	}
}

// ListVersions returns the agent's non-deleted versions, newest first.
// Agent id 0 yields an empty page.
func (s *VersionQueryService) ListVersions(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	filter domain.VersionFilter,
) (page *domain.VersionPage, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("list_versions", start, err) }(time.Now())

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidPagination)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *filter.Status)
	}
	if agentID == 0 {
		return &domain.VersionPage{Items: []*domain.AgentVersion{}}, nil
	}
	if agentID < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAgentID, agentID)
	}

	if s.cache != nil {
		if cached, ok := s.cachedList(ctx, caller, agentID); ok {
			items, total := filter.Apply(cached)
			if items == nil {
				items = []*domain.AgentVersion{}
			}
			return &domain.VersionPage{Items: items, Total: total}, nil
		}
	}

	// The generation is read before the database so a concurrent invalidation
	// makes SetList skip the list loaded here.
	var (
		gen      int64
		cacheGen = s.cache != nil
	)
	if cacheGen {
		g, genErr := s.cache.Generation(ctx, caller.TenantID, agentID)
		if genErr != nil {
			slog.Warn("version list cache unavailable", "agent_id", agentID, "error", genErr)
		}
		gen, cacheGen = g, genErr == nil
	}

	var (
		items []*domain.AgentVersion
		total int
	)
	err = retryRead(ctx, s.retry, func() error {
		if _, err := s.store.GetAgent(ctx, caller.TenantID, agentID); err != nil {
			return err
		}

		if s.cache == nil {
			var err error
			items, total, err = s.store.ListVersions(ctx, agentID, filter)
			return err
		}

		full, _, err := s.store.ListVersions(ctx, agentID, domain.VersionFilter{})
		if err != nil {
			return err
		}
		items, total = filter.Apply(full)

		if !cacheGen {
			return nil
		}
		stored, err := s.cache.SetList(ctx, caller.TenantID, agentID, gen, full)
		switch {
		case err != nil:
			slog.Warn("failed to cache version list", "agent_id", agentID, "error", err)
		case !stored:
			slog.Debug("version list changed while loading, not cached", "agent_id", agentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.AgentVersion{}
	}
	return &domain.VersionPage{Items: items, Total: total}, nil
}

func (s *VersionQueryService) cachedList(ctx context.Context, caller domain.Caller, agentID int64) ([]*domain.AgentVersion, bool) {
	cached, ok, err := s.cache.GetList(ctx, caller.TenantID, agentID)
	switch {
	case err != nil:
		s.metrics.ObserveCache(metrics.CacheError)
		slog.Warn("version list cache unavailable", "agent_id", agentID, "error", err)
		return nil, false
	case !ok:
		s.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	default:
		s.metrics.ObserveCache(metrics.CacheHit)
		return cached, true
	}
}

// GetVersionDetail returns the full snapshot of a published version.
func (s *VersionQueryService) GetVersionDetail(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	versionNo int,
) (detail *domain.VersionDetail, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("get_version", start, err) }(time.Now())

	if versionNo <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidVersionNo, versionNo)
	}

	err = retryRead(ctx, s.retry, func() error {
		agent, err := s.store.GetAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		detail, err = s.builder.Resolve(ctx, s.store, agent, versionNo)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// GetCurrentVersion returns the snapshot the agent currently serves, or nil if it was never published.
func (s *VersionQueryService) GetCurrentVersion(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
) (detail *domain.VersionDetail, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("get_current_version", start, err) }(time.Now())

	err = retryRead(ctx, s.retry, func() error {
		agent, err := s.store.GetAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}
		if !agent.IsPublished() {
			detail = nil
			return nil
		}

		detail, err = s.builder.Resolve(ctx, s.store, agent, agent.CurrentVersionNo)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// ListEvents returns the agent's version audit log, oldest first.
func (s *VersionQueryService) ListEvents(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
) (events []*domain.VersionEvent, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("list_events", start, err) }(time.Now())

	err = retryRead(ctx, s.retry, func() error {
		if _, err := s.store.GetAgent(ctx, caller.TenantID, agentID); err != nil {
			return err
		}

		events, err = s.store.ListEvents(ctx, agentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}
