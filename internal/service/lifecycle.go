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

// PublishParams are the optional inputs of a publish.
type PublishParams struct {
	VersionName string
	ReleaseNote string
	// ExpectedCurrentVersionNo, when set, must equal the agent's current version.
	ExpectedCurrentVersionNo *int
}

// RollbackResult is the draft after a rollback and what the rollback changed.
type RollbackResult struct {
	Agent      *domain.Agent
	Draft      *domain.VersionDetail
	Comparison *domain.Comparison
}

// VersionLifecycle coordinates publish, rollback, delete and status changes.
// Each operation runs in one transaction holding the agent row lock; none is retried.
type VersionLifecycle struct {
	store     repository.Store
	builder   *SnapshotBuilder
	validator *Validator
	cache     VersionCache
	notifier  ChangeNotifier
	metrics   *metrics.Metrics
}

// NewVersionLifecycle creates a new VersionLifecycle. cache, notifier and m may be nil.
func NewVersionLifecycle(
	store repository.Store,
	cache VersionCache,
	notifier ChangeNotifier,
	m *metrics.Metrics,
) *VersionLifecycle {
	return &VersionLifecycle{
		store:     store,
		builder:   NewSnapshotBuilder(),
		validator: NewValidator(),
		cache:     cache,
		notifier:  notifier,
		metrics:   m,
	}
}

// Publish creates the next version from the current draft and makes it current.
func (l *VersionLifecycle) Publish(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	params PublishParams,
) (version *domain.AgentVersion, err error) {
	defer l.observe("publish", time.Now(), &err)

	params, err = l.validator.NormalizePublish(params)
	if err != nil {
		return nil, err
	}

	var previous int
	err = l.store.InTx(ctx, func(tx repository.Tx) error {
		agent, err := tx.LockAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		if err := l.validator.CheckExpected(agent, params.ExpectedCurrentVersionNo); err != nil {
			return err
		}

		if params.VersionName != "" {
			exists, err := tx.VersionNameExists(ctx, agentID, params.VersionName)
			if err != nil {
				return fmt.Errorf("check version name: %w", err)
			}
			if exists {
				return fmt.Errorf("%w: %q", domain.ErrVersionNameTaken, params.VersionName)
			}
		}

		detail, err := l.builder.Capture(ctx, tx, agent)
		if err != nil {
			return err
		}

		versionNo, err := tx.NextVersionNo(ctx, agentID)
		if err != nil {
			return fmt.Errorf("next version number: %w", err)
		}

		v := &domain.AgentVersion{
			AgentID:     agentID,
			VersionNo:   versionNo,
			VersionName: params.VersionName,
			ReleaseNote: params.ReleaseNote,
			SourceType:  domain.SourceTypeNormal,
			Status:      domain.VersionStatusActive,
			CreatedBy:   caller.UserID,
		}
		if v.VersionName == "" {
			v.VersionName = fmt.Sprintf("V%d", versionNo)
		}
		if agent.RollbackPending {
			v.SourceType = domain.SourceTypeRollback
		}
		if agent.IsPublished() {
			source := agent.CurrentVersionNo
			v.SourceVersionNo = &source
		}

		if err := writeSnapshot(ctx, tx, agentID, versionNo, detail); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}

		if err := tx.CreateVersion(ctx, v); err != nil {
			return err
		}

		if err := tx.SetCurrentVersion(ctx, agentID, agent.CurrentVersionNo, versionNo, false, caller.UserID); err != nil {
			return err
		}

		if err := tx.CreateEvent(ctx, &domain.VersionEvent{
			AgentID:       agentID,
			VersionNo:     versionNo,
			ActorID:       caller.UserID,
			Type:          domain.EventTypePublished,
			FromVersionNo: agent.CurrentVersionNo,
		}); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		previous = agent.CurrentVersionNo
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, caller, agentID, version.VersionNo, domain.EventTypePublished, version.VersionNo)

	slog.Info("version published",
		"agent_id", agentID,
		"version_no", version.VersionNo,
		"source_type", version.SourceType,
		"previous_version_no", previous,
		"user_id", caller.UserID,
	)

	return version, nil
}

// Rollback copies the snapshot of targetVersionNo onto the draft and makes it current.
// No version is created.
func (l *VersionLifecycle) Rollback(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	targetVersionNo int,
	expectedCurrentVersionNo *int,
) (result *RollbackResult, err error) {
	defer l.observe("rollback", time.Now(), &err)

	if err := l.validator.CheckVersionNo(targetVersionNo); err != nil {
		return nil, err
	}

	var previous int
	err = l.store.InTx(ctx, func(tx repository.Tx) error {
		agent, err := tx.LockAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		if err := l.validator.CheckExpected(agent, expectedCurrentVersionNo); err != nil {
			return err
		}

		target, err := tx.GetVersion(ctx, agentID, targetVersionNo)
		if err != nil {
			return fmt.Errorf("version %d: %w", targetVersionNo, err)
		}

		if err := l.validator.CanRollback(agent, target); err != nil {
			return err
		}

		before, err := l.builder.Draft(ctx, tx, agent)
		if err != nil {
			return err
		}

		snapshot, err := l.builder.Version(ctx, tx, target)
		if err != nil {
			return err
		}

		if err := restoreDraft(ctx, tx, agentID, snapshot, caller.UserID); err != nil {
			return fmt.Errorf("restore draft: %w", err)
		}

		if err := tx.SetCurrentVersion(ctx, agentID, agent.CurrentVersionNo, targetVersionNo, true, caller.UserID); err != nil {
			return err
		}

		if err := tx.CreateEvent(ctx, &domain.VersionEvent{
			AgentID:       agentID,
			VersionNo:     targetVersionNo,
			ActorID:       caller.UserID,
			Type:          domain.EventTypeRolledBack,
			FromVersionNo: agent.CurrentVersionNo,
		}); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		previous = agent.CurrentVersionNo

		draft := snapshot.Clone()
		draft.VersionNo = domain.DraftVersionNo
		draft.Version = nil

		agent.Profile = draft.Profile.Clone()
		agent.CurrentVersionNo = targetVersionNo
		agent.RollbackPending = true
		agent.UpdatedBy = caller.UserID

		result = &RollbackResult{
			Agent:      agent,
			Draft:      draft,
			Comparison: CompareDetails(before, snapshot),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, caller, agentID, targetVersionNo, domain.EventTypeRolledBack, targetVersionNo)

	slog.Info("agent rolled back",
		"agent_id", agentID,
		"version_no", targetVersionNo,
		"previous_version_no", previous,
		"user_id", caller.UserID,
	)

	return result, nil
}

// DeleteVersion soft-deletes a version that is not current.
func (l *VersionLifecycle) DeleteVersion(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	versionNo int,
) (err error) {
	defer l.observe("delete", time.Now(), &err)

	if err := l.validator.CheckVersionNo(versionNo); err != nil {
		return err
	}

	var current int
	err = l.store.InTx(ctx, func(tx repository.Tx) error {
		agent, err := tx.LockAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		version, err := tx.GetVersion(ctx, agentID, versionNo)
		if err != nil {
			return fmt.Errorf("version %d: %w", versionNo, err)
		}

		if err := l.validator.CanDelete(agent, version); err != nil {
			return err
		}

		if err := tx.SoftDeleteVersion(ctx, agentID, versionNo, caller.UserID); err != nil {
			return err
		}

		status := version.Status
		if err := tx.CreateEvent(ctx, &domain.VersionEvent{
			AgentID:       agentID,
			VersionNo:     versionNo,
			ActorID:       caller.UserID,
			Type:          domain.EventTypeDeleted,
			OldStatus:     &status,
			FromVersionNo: agent.CurrentVersionNo,
		}); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		current = agent.CurrentVersionNo
		return nil
	})
	if err != nil {
		return err
	}

	l.afterCommit(ctx, caller, agentID, versionNo, domain.EventTypeDeleted, current)

	slog.Info("version deleted",
		"agent_id", agentID,
		"version_no", versionNo,
		"user_id", caller.UserID,
	)

	return nil
}

// UpdateStatus changes the status of a version.
func (l *VersionLifecycle) UpdateStatus(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	versionNo int,
	newStatus domain.VersionStatus,
) (updated *domain.AgentVersion, err error) {
	defer l.observe("update_status", time.Now(), &err)

	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}
	if err := l.validator.CheckVersionNo(versionNo); err != nil {
		return nil, err
	}

	var (
		oldStatus domain.VersionStatus
		current   int
	)
	err = l.store.InTx(ctx, func(tx repository.Tx) error {
		agent, err := tx.LockAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		version, err := tx.GetVersion(ctx, agentID, versionNo)
		if err != nil {
			return fmt.Errorf("version %d: %w", versionNo, err)
		}

		if err := l.validator.CanChangeStatus(agent, version, newStatus); err != nil {
			return err
		}

		updated, err = tx.UpdateVersionStatus(ctx, agentID, versionNo, version.Status, newStatus, caller.UserID)
		if err != nil {
			return err
		}

		oldStatus = version.Status
		if err := tx.CreateEvent(ctx, &domain.VersionEvent{
			AgentID:       agentID,
			VersionNo:     versionNo,
			ActorID:       caller.UserID,
			Type:          domain.EventTypeStatusChanged,
			OldStatus:     &oldStatus,
			NewStatus:     &newStatus,
			FromVersionNo: agent.CurrentVersionNo,
		}); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		current = agent.CurrentVersionNo
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, caller, agentID, versionNo, domain.EventTypeStatusChanged, current)

	slog.Info("version status changed",
		"agent_id", agentID,
		"version_no", versionNo,
		"old_status", oldStatus,
		"new_status", newStatus,
		"user_id", caller.UserID,
	)

	return updated, nil
}

// afterCommit invalidates the agent's cached list and broadcasts the change.
// Failures are logged; the mutation is already committed.
func (l *VersionLifecycle) afterCommit(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	versionNo int,
	eventType domain.EventType,
	currentVersionNo int,
) {
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx, caller.TenantID, agentID); err != nil {
			slog.Warn("failed to invalidate version list cache",
				"agent_id", agentID,
				"error", err,
			)
		}
	}

	if l.notifier != nil {
		change := domain.VersionChange{
			TenantID:         caller.TenantID,
			AgentID:          agentID,
			VersionNo:        versionNo,
			Type:             eventType,
			CurrentVersionNo: currentVersionNo,
		}
		if err := l.notifier.NotifyVersionChanged(ctx, change); err != nil {
			slog.Warn("failed to publish version change",
				"agent_id", agentID,
				"version_no", versionNo,
				"error", err,
			)
		}
	}
}

func (l *VersionLifecycle) observe(operation string, start time.Time, err *error) {
	l.metrics.ObserveOperation(operation, start, *err)
}
