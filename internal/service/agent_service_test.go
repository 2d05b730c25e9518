package service_test

import (
	"context"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

// TestCreateAgent tests creating an unpublished draft.
func (s *versionSuite) TestCreateAgent() {
	ctx := context.Background()

	agent, detail, err := s.agents.CreateAgent(ctx, s.caller, draftParams("support"))
	s.Require().NoError(err)

	s.NotZero(agent.ID)
	s.Equal(s.caller.TenantID, agent.TenantID)
	s.True(agent.Enabled)
	s.Equal(0, agent.CurrentVersionNo)
	s.True(detail.IsDraft())
	s.Require().Len(detail.Tools, 1)
	s.Equal(int64(3), detail.Tools[0].ToolID)

	disabled := false
	params := draftParams("quiet")
	params.Enabled = &disabled
	agent, _, err = s.agents.CreateAgent(ctx, s.caller, params)
	s.Require().NoError(err)
	s.False(agent.Enabled)

	params = draftParams("")
	_, _, err = s.agents.CreateAgent(ctx, s.caller, params)
	s.ErrorIs(err, domain.ErrInvalidAgentProfile)
}

// TestUpdateDraft_SubAgents tests sub-agent validation on draft edits.
func (s *versionSuite) TestUpdateDraft_SubAgents() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")
	helperID := s.createAgent(ctx, "helper")

	s.editDraft(ctx, agentID, func(p *service.DraftParams) { p.SubAgentIDs = []int64{helperID} })

	_, detail, err := s.agents.GetDraft(ctx, s.caller, agentID)
	s.Require().NoError(err)
	s.Equal([]int64{helperID}, detail.SubAgentIDs)

	params := draftParams("support")
	params.SubAgentIDs = []int64{agentID}
	_, _, err = s.agents.UpdateDraft(ctx, s.caller, agentID, params)
	s.ErrorIs(err, domain.ErrSubAgentSelfRelation)

	params.SubAgentIDs = []int64{777}
	_, _, err = s.agents.UpdateDraft(ctx, s.caller, agentID, params)
	s.ErrorIs(err, domain.ErrInvalidAgentProfile)

	params.SubAgentIDs = nil
	params.Tools = []domain.ToolInstance{{ToolID: 3, Params: domain.ToolParams{"": domain.BoolParam(true)}}}
	_, _, err = s.agents.UpdateDraft(ctx, s.caller, agentID, params)
	s.ErrorIs(err, domain.ErrInvalidToolParam)
}

// TestUpdateDraft_KeepsVersions tests that draft edits leave versions and the pointer alone.
func (s *versionSuite) TestUpdateDraft_KeepsVersions() {
	ctx := context.Background()
	agentID := s.createAgent(ctx, "support")
	s.publish(ctx, agentID)

	s.editDraft(ctx, agentID, func(p *service.DraftParams) { p.Profile.MaxSteps = 99 })

	s.Equal(1, s.currentVersionNo(ctx, agentID))
	s.Equal([]int{1}, s.versionNos(ctx, agentID))

	cmp, err := s.comparator.Compare(ctx, s.caller, agentID, 1, 0)
	s.Require().NoError(err)
	s.Require().Len(cmp.Differences, 1)
	s.Equal(domain.FieldMaxSteps, cmp.Differences[0].Field)
}

// TestListPublished tests the published catalog built from current versions.
func (s *versionSuite) TestListPublished() {
	ctx := context.Background()

	supportID := s.createAgent(ctx, "support")
	s.publish(ctx, supportID)
	s.editDraft(ctx, supportID, func(p *service.DraftParams) { p.Profile.Name = "support-next" })

	s.createAgent(ctx, "unpublished")

	disabled := false
	params := draftParams("disabled")
	params.Enabled = &disabled
	quiet, _, err := s.agents.CreateAgent(ctx, s.caller, params)
	s.Require().NoError(err)
	s.publish(ctx, quiet.ID)

	params = draftParams("support")
	params.Profile.GroupIDs = []int64{2}
	params.Tools[0].Enabled = false
	twin, _, err := s.agents.CreateAgent(ctx, s.caller, params)
	s.Require().NoError(err)
	s.publish(ctx, twin.ID)

	published, err := s.agents.ListPublished(ctx, s.caller, nil)
	s.Require().NoError(err)
	s.Require().Len(published, 2)

	s.Equal(supportID, published[0].Agent.ID)
	s.Equal("support", published[0].Detail.Profile.Name, "the catalog serves the current version, not the draft")
	s.Empty(published[0].UnavailableReasons)

	s.Equal(twin.ID, published[1].Agent.ID)
	s.Equal([]string{domain.ReasonAllToolsDisabled, domain.ReasonDuplicateName}, published[1].UnavailableReasons)

	published, err = s.agents.ListPublished(ctx, s.caller, []int64{2, 5})
	s.Require().NoError(err)
	s.Require().Len(published, 1)
	s.Equal(twin.ID, published[0].Agent.ID)

	published, err = s.agents.ListPublished(ctx, domain.Caller{TenantID: "tenant-2"}, nil)
	s.Require().NoError(err)
	s.Empty(published)
}
