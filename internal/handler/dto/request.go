package dto

import (
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

// AgentRequest is the request body for POST /agent and PUT /agent/{id}.
type AgentRequest struct {
	Name                   string         `json:"name"`
	DisplayName            string         `json:"display_name"`
	Description            string         `json:"description"`
	Author                 string         `json:"author"`
	ModelID                int64          `json:"model_id"`
	ModelName              string         `json:"model_name"`
	MaxSteps               int            `json:"max_steps"`
	ProvideRunSummary      bool           `json:"provide_run_summary"`
	DutyPrompt             string         `json:"duty_prompt"`
	ConstraintPrompt       string         `json:"constraint_prompt"`
	FewShotsPrompt         string         `json:"few_shots_prompt"`
	BusinessDescription    string         `json:"business_description"`
	BusinessLogicModelID   int64          `json:"business_logic_model_id"`
	BusinessLogicModelName string         `json:"business_logic_model_name"`
	GroupIDs               []int64        `json:"group_ids"`
	Enabled                *bool          `json:"enabled,omitempty"`
	Tools                  []ToolInstance `json:"tools"`
	SubAgentIDs            []int64        `json:"sub_agent_ids"`
}

// ToolInstance is a tool with its parameters on the wire.
type ToolInstance struct {
	ToolID  int64             `json:"tool_id"`
	Enabled bool              `json:"enabled"`
	Params  domain.ToolParams `json:"params"`
}

// ToDraftParams converts the request to service input.
func (r AgentRequest) ToDraftParams() service.DraftParams {
	tools := make([]domain.ToolInstance, 0, len(r.Tools))
	for _, t := range r.Tools {
		tools = append(tools, domain.ToolInstance{ToolID: t.ToolID, Enabled: t.Enabled, Params: t.Params})
	}

	return service.DraftParams{
		Profile: domain.AgentProfile{
			Name:                   r.Name,
			DisplayName:            r.DisplayName,
			Description:            r.Description,
			Author:                 r.Author,
			ModelID:                r.ModelID,
			ModelName:              r.ModelName,
			MaxSteps:               r.MaxSteps,
			ProvideRunSummary:      r.ProvideRunSummary,
			DutyPrompt:             r.DutyPrompt,
			ConstraintPrompt:       r.ConstraintPrompt,
			FewShotsPrompt:         r.FewShotsPrompt,
			BusinessDescription:    r.BusinessDescription,
			BusinessLogicModelID:   r.BusinessLogicModelID,
			BusinessLogicModelName: r.BusinessLogicModelName,
			GroupIDs:               r.GroupIDs,
		},
		Tools:       tools,
		SubAgentIDs: r.SubAgentIDs,
		Enabled:     r.Enabled,
	}
}

// PublishRequest is the request body for POST /agent/{id}/publish.
type PublishRequest struct {
	VersionName              string `json:"version_name"`
	ReleaseNote              string `json:"release_note"`
	ExpectedCurrentVersionNo *int   `json:"expected_current_version_no,omitempty"`
}

// RollbackRequest is the request body for POST /agent/{id}/versions/{versionNo}/rollback.
type RollbackRequest struct {
	ExpectedCurrentVersionNo *int `json:"expected_current_version_no,omitempty"`
}

// UpdateStatusRequest is the request body for PATCH /agent/{id}/versions/{versionNo}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CompareRequest is the request body for POST /agent/{id}/versions/compare.
type CompareRequest struct {
	VersionNoA *int `json:"version_no_a"`
	VersionNoB *int `json:"version_no_b"`
}
