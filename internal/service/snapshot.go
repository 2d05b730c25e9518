package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// SnapshotBuilder reads configuration details and returns copies that share nothing with storage.
type SnapshotBuilder struct{}

// NewSnapshotBuilder creates a new SnapshotBuilder.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{}
}

// Draft returns the live draft of agent.
func (b *SnapshotBuilder) Draft(ctx context.Context, r repository.Reader, agent *domain.Agent) (*domain.VersionDetail, error) {
	tools, err := r.ListTools(ctx, agent.ID, domain.DraftVersionNo)
	if err != nil {
		return nil, fmt.Errorf("list draft tools: %w", err)
	}

	subAgentIDs, err := r.ListSubAgentIDs(ctx, agent.ID, domain.DraftVersionNo)
	if err != nil {
		return nil, fmt.Errorf("list draft sub-agents: %w", err)
	}

	return &domain.VersionDetail{
		AgentID:     agent.ID,
		VersionNo:   domain.DraftVersionNo,
		Profile:     agent.Profile.Clone(),
		Tools:       domain.CloneTools(tools),
		SubAgentIDs: slices.Clone(subAgentIDs),
	}, nil
}

// Capture returns the draft as it would be published, validating every tool parameter.
func (b *SnapshotBuilder) Capture(ctx context.Context, r repository.Reader, agent *domain.Agent) (*domain.VersionDetail, error) {
	detail, err := b.Draft(ctx, r, agent)
	if err != nil {
		return nil, err
	}

	for _, tool := range detail.Tools {
		if err := tool.Validate(); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// Version returns the snapshot stored for a published version.
func (b *SnapshotBuilder) Version(ctx context.Context, r repository.Reader, version *domain.AgentVersion) (*domain.VersionDetail, error) {
	profile, err := r.GetProfileSnapshot(ctx, version.AgentID, version.VersionNo)
	if err != nil {
		return nil, err
	}

	tools, err := r.ListTools(ctx, version.AgentID, version.VersionNo)
	if err != nil {
		return nil, fmt.Errorf("list tools of version %d: %w", version.VersionNo, err)
	}

	subAgentIDs, err := r.ListSubAgentIDs(ctx, version.AgentID, version.VersionNo)
	if err != nil {
		return nil, fmt.Errorf("list sub-agents of version %d: %w", version.VersionNo, err)
	}

	return &domain.VersionDetail{
		AgentID:     version.AgentID,
		VersionNo:   version.VersionNo,
		Version:     version.Clone(),
		Profile:     profile.Clone(),
		Tools:       domain.CloneTools(tools),
		SubAgentIDs: slices.Clone(subAgentIDs),
	}, nil
}

// Resolve returns the draft for versionNo 0 and the non-deleted published version otherwise.
func (b *SnapshotBuilder) Resolve(ctx context.Context, r repository.Reader, agent *domain.Agent, versionNo int) (*domain.VersionDetail, error) {
	if versionNo == domain.DraftVersionNo {
		return b.Draft(ctx, r, agent)
	}

	version, err := r.GetVersion(ctx, agent.ID, versionNo)
	if err != nil {
		return nil, fmt.Errorf("version %d: %w", versionNo, err)
	}

	return b.Version(ctx, r, version)
}

// writeSnapshot stores detail under versionNo.
func writeSnapshot(ctx context.Context, tx repository.Tx, agentID int64, versionNo int, detail *domain.VersionDetail) error {
	if err := tx.SaveProfileSnapshot(ctx, agentID, versionNo, detail.Profile); err != nil {
		return err
	}
	if err := tx.ReplaceTools(ctx, agentID, versionNo, detail.Tools); err != nil {
		return err
	}
	return tx.ReplaceSubAgents(ctx, agentID, versionNo, detail.SubAgentIDs)
}

// restoreDraft overwrites the draft of agentID with detail.
func restoreDraft(ctx context.Context, tx repository.Tx, agentID int64, detail *domain.VersionDetail, userID string) error {
	if err := tx.UpdateDraftProfile(ctx, agentID, detail.Profile, userID); err != nil {
		return err
	}
	if err := tx.ReplaceTools(ctx, agentID, domain.DraftVersionNo, detail.Tools); err != nil {
		return err
	}
	return tx.ReplaceSubAgents(ctx, agentID, domain.DraftVersionNo, detail.SubAgentIDs)
}
