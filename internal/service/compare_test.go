package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestCompareDetails(t *testing.T) {
	a := &domain.VersionDetail{
		AgentID:   1,
		VersionNo: 1,
		Profile:   domain.AgentProfile{Name: "support", ModelID: 1, ModelName: "m", MaxSteps: 5},
		Tools: []domain.ToolInstance{
			{ToolID: 4, Enabled: true},
			{ToolID: 2, Enabled: true},
		},
		SubAgentIDs: []int64{10},
	}

	t.Run("identical", func(t *testing.T) {
		cmp := CompareDetails(a, a.Clone())
		assert.False(t, cmp.HasDifferences())
		assert.Len(t, cmp.Fields, 9)
		assert.NotNil(t, cmp.Differences)
	})

	t.Run("tool order and params are ignored", func(t *testing.T) {
		b := a.Clone()
		b.Tools = []domain.ToolInstance{
			{ToolID: 2, Enabled: false, Params: domain.ToolParams{"k": domain.StringParam("v")}},
			{ToolID: 4},
		}
		assert.False(t, CompareDetails(a, b).HasDifferences())
	})

	t.Run("changes", func(t *testing.T) {
		b := a.Clone()
		b.Profile.ModelName = "m2"
		b.Profile.FewShotsPrompt = "example"
		b.SubAgentIDs = nil

		cmp := CompareDetails(a, b)
		require.Len(t, cmp.Differences, 3)
		assert.Equal(t, domain.FieldModel, cmp.Differences[0].Field)
		assert.Equal(t, domain.FieldFewShotsPrompt, cmp.Differences[1].Field)
		assert.Equal(t, domain.FieldSubAgents, cmp.Differences[2].Field)
		assert.Equal(t, 1, cmp.Differences[2].ValueA)
		assert.Equal(t, 0, cmp.Differences[2].ValueB)
	})

	t.Run("tool summary", func(t *testing.T) {
		summary := toolSummary([]domain.ToolInstance{{ToolID: 5}, {ToolID: 1}, {ToolID: 5}})
		assert.Equal(t, domain.ToolSummary{Count: 3, ToolIDs: []int64{1, 5}}, summary)
	})
}
