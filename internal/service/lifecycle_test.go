package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

// TestPublish_FirstVersion tests publishing a never published agent.
func (s *versionSuite) TestPublish_FirstVersion() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	v, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{ReleaseNote: "initial"})
	s.Require().NoError(err)

	s.Equal(1, v.VersionNo)
	s.Equal("V1", v.VersionName)
	s.Equal("initial", v.ReleaseNote)
	s.Equal(domain.SourceTypeNormal, v.SourceType)
	s.Nil(v.SourceVersionNo)
	s.Equal(domain.VersionStatusActive, v.Status)
	s.Equal(s.caller.UserID, v.CreatedBy)
	s.Equal(1, s.currentVersionNo(ctx, agentID))
}

// TestPublish_NumberingSkipsDeleted tests that numbers keep growing after deletes.
func (s *versionSuite) TestPublish_NumberingSkipsDeleted() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	s.Require().NoError(s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 3-1))

	v := s.publish(ctx, agentID)
	s.Equal(4, v.VersionNo)
	s.Equal([]int{4, 3, 1}, s.versionNos(ctx, agentID))
}

// TestPublish_SourceVersion tests that the previous current version is recorded.
func (s *versionSuite) TestPublish_SourceVersion() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	v := s.publish(ctx, agentID)

	s.Require().NotNil(v.SourceVersionNo)
	s.Equal(1, *v.SourceVersionNo)
	s.Equal(domain.SourceTypeNormal, v.SourceType)
}

// TestPublish_DuplicateName tests that names are unique per agent.
func (s *versionSuite) TestPublish_DuplicateName() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")
	otherID := s.createAgent(ctx, "sales")

	_, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{VersionName: "release"})
	s.Require().NoError(err)

	_, err = s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{VersionName: "  release "})
	s.ErrorIs(err, domain.ErrVersionNameTaken)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.lifecycle.Publish(ctx, s.caller, otherID, service.PublishParams{VersionName: "release"})
	s.NoError(err, "names are scoped to one agent")
}

// TestPublish_TooLong tests the name and release note limits.
func (s *versionSuite) TestPublish_TooLong() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	_, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{VersionName: strings.Repeat("n", 101)})
	s.ErrorIs(err, domain.ErrVersionNameTooLong)

	_, err = s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{ReleaseNote: strings.Repeat("n", 2001)})
	s.ErrorIs(err, domain.ErrReleaseNoteTooLong)

	s.Equal(0, s.currentVersionNo(ctx, agentID))
}

// TestPublish_ExpectedCurrentVersion tests the optimistic pointer check.
func (s *versionSuite) TestPublish_ExpectedCurrentVersion() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")
	s.publish(ctx, agentID)

	stale := 0
	_, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{ExpectedCurrentVersionNo: &stale})
	s.ErrorIs(err, domain.ErrStaleVersion)
	s.ErrorIs(err, domain.ErrConflict)

	fresh := 1
	v, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{ExpectedCurrentVersionNo: &fresh})
	s.Require().NoError(err)
	s.Equal(2, v.VersionNo)
}

// TestPublish_UnknownAgent tests publishing a missing agent.
func (s *versionSuite) TestPublish_UnknownAgent() {
	_, err := s.lifecycle.Publish(context.Background(), s.caller, 999, service.PublishParams{})
	s.ErrorIs(err, domain.ErrAgentNotFound)
}

// TestPublish_ConcurrentPublishes checks that concurrent publishes get distinct numbers.
func (s *versionSuite) TestPublish_ConcurrentPublishes() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	const workers = 5
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.lifecycle.Publish(ctx, s.caller, agentID, service.PublishParams{
				VersionName: fmt.Sprintf("release-%d", n),
			})
			results <- err
		}(i)
	}

	wg.Wait()
	close(results)

	for err := range results {
		s.NoError(err)
	}

	s.Equal([]int{5, 4, 3, 2, 1}, s.versionNos(ctx, agentID))
	s.Equal(5, s.currentVersionNo(ctx, agentID))
}

// TestRollback_CreatesNoVersion tests that rollback moves the pointer without a new row.
func (s *versionSuite) TestRollback_CreatesNoVersion() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.editDraft(ctx, agentID, func(p *service.DraftParams) { p.Profile.DutyPrompt = "changed" })
	s.publish(ctx, agentID)

	rows := s.countRows(agentID)

	result, err := s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.Require().NoError(err)

	s.Equal(rows, s.countRows(agentID))
	s.Equal(1, s.currentVersionNo(ctx, agentID))
	s.Equal(1, result.Agent.CurrentVersionNo)
	s.True(result.Agent.RollbackPending)
	s.Equal("Answer questions about support", result.Draft.Profile.DutyPrompt)
	s.True(result.Draft.IsDraft())

	s.Require().True(result.Comparison.HasDifferences())
	s.Equal(domain.FieldDutyPrompt, result.Comparison.Differences[0].Field)
	s.Equal("changed", result.Comparison.Differences[0].ValueA)

	_, draft, err := s.agents.GetDraft(ctx, s.caller, agentID)
	s.Require().NoError(err)
	s.Equal("Answer questions about support", draft.Profile.DutyPrompt)
}

// TestRollback_ThenPublish tests that publishing after a rollback reproduces the target.
func (s *versionSuite) TestRollback_ThenPublish() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.editDraft(ctx, agentID, func(p *service.DraftParams) {
		p.Profile.MaxSteps = 25
		p.Tools = append(p.Tools, domain.ToolInstance{ToolID: 9, Enabled: true})
		p.SubAgentIDs = []int64{s.createAgent(ctx, "helper")}
	})
	s.publish(ctx, agentID)

	_, err := s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.Require().NoError(err)

	v3 := s.publish(ctx, agentID)
	s.Equal(3, v3.VersionNo)
	s.Equal(domain.SourceTypeRollback, v3.SourceType)
	s.Require().NotNil(v3.SourceVersionNo)
	s.Equal(1, *v3.SourceVersionNo)

	cmp, err := s.comparator.Compare(ctx, s.caller, agentID, 1, 3)
	s.Require().NoError(err)
	s.False(cmp.HasDifferences())

	v4 := s.publish(ctx, agentID)
	s.Equal(domain.SourceTypeNormal, v4.SourceType, "the rollback flag is cleared by the publish")
}

// TestRollback_EditAfterRollbackKeepsLineage tests that edits do not clear the rollback flag.
func (s *versionSuite) TestRollback_EditAfterRollbackKeepsLineage() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	_, err := s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.Require().NoError(err)

	s.editDraft(ctx, agentID, func(p *service.DraftParams) { p.Profile.Description = "tweaked" })

	v := s.publish(ctx, agentID)
	s.Equal(domain.SourceTypeRollback, v.SourceType)
}

// TestRollback_Rejections tests the rollback preconditions.
func (s *versionSuite) TestRollback_Rejections() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	_, err := s.lifecycle.Rollback(ctx, s.caller, agentID, 3, nil)
	s.ErrorIs(err, domain.ErrRollbackToCurrent)

	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 0, nil)
	s.ErrorIs(err, domain.ErrDraftVersion)

	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 42, nil)
	s.ErrorIs(err, domain.ErrVersionNotFound)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusDisabled)
	s.Require().NoError(err)
	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.ErrorIs(err, domain.ErrVersionDisabled)

	s.Require().NoError(s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 2))
	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 2, nil)
	s.ErrorIs(err, domain.ErrVersionNotFound)

	stale := 1
	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 1, &stale)
	s.ErrorIs(err, domain.ErrStaleVersion)

	s.Equal(3, s.currentVersionNo(ctx, agentID))
}

// TestRollback_ArchivedAllowed tests that archived versions remain rollback targets.
func (s *versionSuite) TestRollback_ArchivedAllowed() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	_, err := s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusArchived)
	s.Require().NoError(err)

	_, err = s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.NoError(err)
}

// TestDeleteVersion tests soft deletion.
func (s *versionSuite) TestDeleteVersion() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	err := s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 2)
	s.ErrorIs(err, domain.ErrDeleteCurrentVersion)
	s.ErrorIs(err, domain.ErrConflict)

	err = s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 0)
	s.ErrorIs(err, domain.ErrDraftVersion)

	s.Require().NoError(s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 1))
	s.Equal([]int{2}, s.versionNos(ctx, agentID))
	s.Equal(2, s.countRows(agentID), "deleted rows are kept")

	_, err = s.query.GetVersionDetail(ctx, s.caller, agentID, 1)
	s.ErrorIs(err, domain.ErrVersionNotFound)

	err = s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 1)
	s.ErrorIs(err, domain.ErrVersionNotFound)
}

// TestUpdateStatus tests the allowed status transitions.
func (s *versionSuite) TestUpdateStatus() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)

	v, err := s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusDisabled)
	s.Require().NoError(err)
	s.Equal(domain.VersionStatusDisabled, v.Status)
	s.Equal(s.caller.UserID, v.UpdatedBy)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusArchived)
	s.ErrorIs(err, domain.ErrInvalidTransition)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusDisabled)
	s.ErrorIs(err, domain.ErrInvalidTransition)

	v, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 1, domain.VersionStatusActive)
	s.Require().NoError(err)
	s.Equal(domain.VersionStatusActive, v.Status)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 2, domain.VersionStatusArchived)
	s.ErrorIs(err, domain.ErrCurrentVersionStatus)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 2, domain.VersionStatus("PAUSED"))
	s.ErrorIs(err, domain.ErrInvalidStatus)

	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 0, domain.VersionStatusArchived)
	s.ErrorIs(err, domain.ErrDraftVersion)
}

// TestEvents tests the audit trail written by mutations.
func (s *versionSuite) TestEvents() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")

	s.publish(ctx, agentID)
	s.publish(ctx, agentID)
	_, err := s.lifecycle.Rollback(ctx, s.caller, agentID, 1, nil)
	s.Require().NoError(err)
	_, err = s.lifecycle.UpdateStatus(ctx, s.caller, agentID, 2, domain.VersionStatusArchived)
	s.Require().NoError(err)
	s.Require().NoError(s.lifecycle.DeleteVersion(ctx, s.caller, agentID, 2))

	events, err := s.query.ListEvents(ctx, s.caller, agentID)
	s.Require().NoError(err)
	s.Require().Len(events, 5)

	types := make([]domain.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
		s.Equal(s.caller.UserID, e.ActorID)
	}
	s.Equal([]domain.EventType{
		domain.EventTypePublished,
		domain.EventTypePublished,
		domain.EventTypeRolledBack,
		domain.EventTypeStatusChanged,
		domain.EventTypeDeleted,
	}, types)

	s.Equal(2, events[2].FromVersionNo)
	s.Require().NotNil(events[3].NewStatus)
	s.Equal(domain.VersionStatusArchived, *events[3].NewStatus)
}
