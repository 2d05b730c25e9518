package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// DraftParams is a full draft configuration.
type DraftParams struct {
	Profile     domain.AgentProfile
	Tools       []domain.ToolInstance
	SubAgentIDs []int64
	// Enabled is only read on create; nil means enabled.
	Enabled *bool
}

// PublishedAgent is one entry of the published catalog.
type PublishedAgent struct {
	Agent              *domain.Agent
	Detail             *domain.VersionDetail
	UnavailableReasons []string
}

// AgentService manages agent drafts and the published catalog.
type AgentService struct {
	store     repository.Store
	builder   *SnapshotBuilder
	validator *Validator
	metrics   *metrics.Metrics
	retry     ReadRetry
}

// NewAgentService creates a new AgentService.
func NewAgentService(store repository.Store, m *metrics.Metrics, policy ReadRetry) *AgentService {
	return &AgentService{
		store:     store,
		builder:   NewSnapshotBuilder(),
		validator: NewValidator(),
		metrics:   m,
		retry:     policy,
	}
}

// CreateAgent stores a new unpublished agent.
func (s *AgentService) CreateAgent(
	ctx context.Context,
	caller domain.Caller,
	params DraftParams,
) (agent *domain.Agent, detail *domain.VersionDetail, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("create_agent", start, err) }(time.Now())

	if err := s.validator.ValidateDraft(0, params); err != nil {
		return nil, nil, err
	}

	enabled := true
	if params.Enabled != nil {
		enabled = *params.Enabled
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := checkSubAgents(ctx, tx, caller, params.SubAgentIDs); err != nil {
			return err
		}

		agent = &domain.Agent{
			TenantID:  caller.TenantID,
			Profile:   params.Profile.Clone(),
			Enabled:   enabled,
			CreatedBy: caller.UserID,
		}
		if err := tx.CreateAgent(ctx, agent); err != nil {
			return fmt.Errorf("create agent: %w", err)
		}

		if err := tx.ReplaceTools(ctx, agent.ID, domain.DraftVersionNo, params.Tools); err != nil {
			return fmt.Errorf("save tools: %w", err)
		}
		if err := tx.ReplaceSubAgents(ctx, agent.ID, domain.DraftVersionNo, params.SubAgentIDs); err != nil {
			return fmt.Errorf("save sub-agents: %w", err)
		}

		detail, err = s.builder.Draft(ctx, tx, agent)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("agent created",
		"agent_id", agent.ID,
		"name", agent.Profile.Name,
		"user_id", caller.UserID,
	)

	return agent, detail, nil
}

// GetDraft returns the agent and its live draft.
func (s *AgentService) GetDraft(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
) (agent *domain.Agent, detail *domain.VersionDetail, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("get_draft", start, err) }(time.Now())

	err = retryRead(ctx, s.retry, func() error {
		var err error
		agent, err = s.store.GetAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		detail, err = s.builder.Draft(ctx, s.store, agent)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return agent, detail, nil
}

// UpdateDraft replaces the draft configuration. Published versions and the
// current version pointer are untouched.
func (s *AgentService) UpdateDraft(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	params DraftParams,
) (agent *domain.Agent, detail *domain.VersionDetail, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("update_draft", start, err) }(time.Now())

	if err := s.validator.ValidateDraft(agentID, params); err != nil {
		return nil, nil, err
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		agent, err = tx.LockAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		if err := checkSubAgents(ctx, tx, caller, params.SubAgentIDs); err != nil {
			return err
		}

		draft := &domain.VersionDetail{
			AgentID:     agentID,
			Profile:     params.Profile,
			Tools:       params.Tools,
			SubAgentIDs: params.SubAgentIDs,
		}
		if err := restoreDraft(ctx, tx, agentID, draft, caller.UserID); err != nil {
			return fmt.Errorf("update draft: %w", err)
		}

		agent.Profile = params.Profile.Clone()
		agent.UpdatedBy = caller.UserID

		detail, err = s.builder.Draft(ctx, tx, agent)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("agent draft updated", "agent_id", agentID, "user_id", caller.UserID)

	return agent, detail, nil
}

// ListPublished returns enabled, published agents built from their current version,
// oldest first. With groupIDs, only agents sharing at least one group are returned.
func (s *AgentService) ListPublished(
	ctx context.Context,
	caller domain.Caller,
	groupIDs []int64,
) (published []PublishedAgent, err error) {
	defer func(start time.Time) { s.metrics.ObserveOperation("list_published", start, err) }(time.Now())

	err = retryRead(ctx, s.retry, func() error {
		agents, err := s.store.ListPublishedAgents(ctx, caller.TenantID)
		if err != nil {
			return err
		}

		published = make([]PublishedAgent, 0, len(agents))
		seen := make(map[string]struct{}, len(agents))
		for _, agent := range agents {
			detail, err := s.builder.Resolve(ctx, s.store, agent, agent.CurrentVersionNo)
			if err != nil {
				return fmt.Errorf("agent %d: %w", agent.ID, err)
			}

			if len(groupIDs) > 0 && !sharesGroup(detail.Profile.GroupIDs, groupIDs) {
				continue
			}

			reasons := detail.UnavailableReasons()
			names := []string{detail.Profile.Name, detail.Profile.DisplayName}
			if slices.ContainsFunc(names, func(n string) bool { _, dup := seen[n]; return n != "" && dup }) {
				reasons = append(reasons, domain.ReasonDuplicateName)
			}
			for _, n := range names {
				if n != "" {
					seen[n] = struct{}{}
				}
			}

			published = append(published, PublishedAgent{
				Agent:              agent,
				Detail:             detail,
				UnavailableReasons: reasons,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return published, nil
}

func sharesGroup(have, want []int64) bool {
	return slices.ContainsFunc(have, func(id int64) bool { return slices.Contains(want, id) })
}

// checkSubAgents verifies every referenced sub-agent exists for the caller's tenant.
func checkSubAgents(ctx context.Context, r repository.Reader, caller domain.Caller, ids []int64) error {
	for _, id := range ids {
		if _, err := r.GetAgent(ctx, caller.TenantID, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: sub-agent %d not found", domain.ErrInvalidAgentProfile, id)
			}
			return err
		}
	}
	return nil
}
