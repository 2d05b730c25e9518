package dto

import (
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

// VersionResponse is the metadata of a published version.
type VersionResponse struct {
	AgentID         int64     `json:"agent_id"`
	VersionNo       int       `json:"version_no"`
	VersionName     string    `json:"version_name"`
	ReleaseNote     string    `json:"release_note"`
	SourceType      string    `json:"source_type"`
	SourceVersionNo *int      `json:"source_version_no"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"created_by"`
	UpdatedBy       string    `json:"updated_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VersionListResponse is one page of versions.
type VersionListResponse struct {
	Items []VersionResponse `json:"items"`
	Total int               `json:"total"`
}

// ProfileResponse holds the versionable scalar fields.
type ProfileResponse struct {
	Name                   string  `json:"name"`
	DisplayName            string  `json:"display_name"`
	Description            string  `json:"description"`
	Author                 string  `json:"author"`
	ModelID                int64   `json:"model_id"`
	ModelName              string  `json:"model_name"`
	MaxSteps               int     `json:"max_steps"`
	ProvideRunSummary      bool    `json:"provide_run_summary"`
	DutyPrompt             string  `json:"duty_prompt"`
	ConstraintPrompt       string  `json:"constraint_prompt"`
	FewShotsPrompt         string  `json:"few_shots_prompt"`
	BusinessDescription    string  `json:"business_description"`
	BusinessLogicModelID   int64   `json:"business_logic_model_id"`
	BusinessLogicModelName string  `json:"business_logic_model_name"`
	GroupIDs               []int64 `json:"group_ids"`
}

// DetailResponse is a full configuration snapshot. Version is null for the draft.
type DetailResponse struct {
	AgentID            int64            `json:"agent_id"`
	VersionNo          int              `json:"version_no"`
	Version            *VersionResponse `json:"version"`
	Profile            ProfileResponse  `json:"profile"`
	Tools              []ToolInstance   `json:"tools"`
	SubAgentIDs        []int64          `json:"sub_agent_ids"`
	IsAvailable        bool             `json:"is_available"`
	UnavailableReasons []string         `json:"unavailable_reasons"`
}

// AgentResponse is an agent with its draft.
type AgentResponse struct {
	ID               int64          `json:"id"`
	Enabled          bool           `json:"enabled"`
	CurrentVersionNo int            `json:"current_version_no"`
	RollbackPending  bool           `json:"rollback_pending"`
	CreatedBy        string         `json:"created_by"`
	UpdatedBy        string         `json:"updated_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Draft            DetailResponse `json:"draft"`
}

// PublishedAgentResponse is one entry of the published catalog.
type PublishedAgentResponse struct {
	ID               int64          `json:"id"`
	CurrentVersionNo int            `json:"current_version_no"`
	Detail           DetailResponse `json:"detail"`
}

// PublishedListResponse lists published agents.
type PublishedListResponse struct {
	Items []PublishedAgentResponse `json:"items"`
}

// FieldComparisonResponse holds both values of one compared field.
type FieldComparisonResponse struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	ValueA  any    `json:"value_a"`
	ValueB  any    `json:"value_b"`
	Changed bool   `json:"changed"`
}

// ComparisonResponse is the result of a comparison.
type ComparisonResponse struct {
	VersionA       DetailResponse            `json:"version_a"`
	VersionB       DetailResponse            `json:"version_b"`
	Fields         []FieldComparisonResponse `json:"fields"`
	Differences    []FieldComparisonResponse `json:"differences"`
	HasDifferences bool                      `json:"has_differences"`
}

// RollbackResponse is the draft after a rollback.
type RollbackResponse struct {
	AgentID          int64              `json:"agent_id"`
	CurrentVersionNo int                `json:"current_version_no"`
	Draft            DetailResponse     `json:"draft"`
	Comparison       ComparisonResponse `json:"comparison"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Deleted   bool  `json:"deleted"`
	AgentID   int64 `json:"agent_id"`
	VersionNo int   `json:"version_no"`
}

// EventResponse is one audit log entry.
type EventResponse struct {
	ID            int64     `json:"id"`
	VersionNo     int       `json:"version_no"`
	ActorID       string    `json:"actor_id"`
	Type          string    `json:"type"`
	OldStatus     *string   `json:"old_status"`
	NewStatus     *string   `json:"new_status"`
	FromVersionNo int       `json:"from_version_no"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventListResponse lists audit log entries.
type EventListResponse struct {
	Items []EventResponse `json:"items"`
}

// ToVersionResponse converts a domain version.
func ToVersionResponse(v *domain.AgentVersion) VersionResponse {
	return VersionResponse{
		AgentID:         v.AgentID,
		VersionNo:       v.VersionNo,
		VersionName:     v.VersionName,
		ReleaseNote:     v.ReleaseNote,
		SourceType:      string(v.SourceType),
		SourceVersionNo: v.SourceVersionNo,
		Status:          string(v.Status),
		CreatedBy:       v.CreatedBy,
		UpdatedBy:       v.UpdatedBy,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// ToVersionListResponse converts a page of versions.
func ToVersionListResponse(page *domain.VersionPage) VersionListResponse {
	items := make([]VersionResponse, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, ToVersionResponse(v))
	}
	return VersionListResponse{Items: items, Total: page.Total}
}

// ToDetailResponse converts a detail and computes its availability.
func ToDetailResponse(d *domain.VersionDetail) DetailResponse {
	return toDetailResponse(d, d.UnavailableReasons())
}

func toDetailResponse(d *domain.VersionDetail, reasons []string) DetailResponse {
	p := d.Profile
	groupIDs := p.GroupIDs
	if groupIDs == nil {
		groupIDs = []int64{}
	}

	tools := make([]ToolInstance, 0, len(d.Tools))
	for _, t := range d.Tools {
		params := t.Params
		if params == nil {
			params = domain.ToolParams{}
		}
		tools = append(tools, ToolInstance{ToolID: t.ToolID, Enabled: t.Enabled, Params: params})
	}

	subAgentIDs := d.SubAgentIDs
	if subAgentIDs == nil {
		subAgentIDs = []int64{}
	}

	resp := DetailResponse{
		AgentID:   d.AgentID,
		VersionNo: d.VersionNo,
		Profile: ProfileResponse{
			Name:                   p.Name,
			DisplayName:            p.DisplayName,
			Description:            p.Description,
			Author:                 p.Author,
			ModelID:                p.ModelID,
			ModelName:              p.ModelName,
			MaxSteps:               p.MaxSteps,
			ProvideRunSummary:      p.ProvideRunSummary,
			DutyPrompt:             p.DutyPrompt,
			ConstraintPrompt:       p.ConstraintPrompt,
			FewShotsPrompt:         p.FewShotsPrompt,
			BusinessDescription:    p.BusinessDescription,
			BusinessLogicModelID:   p.BusinessLogicModelID,
			BusinessLogicModelName: p.BusinessLogicModelName,
			GroupIDs:               groupIDs,
		},
		Tools:              tools,
		SubAgentIDs:        subAgentIDs,
		IsAvailable:        len(reasons) == 0,
		UnavailableReasons: reasons,
	}
	if d.Version != nil {
		v := ToVersionResponse(d.Version)
		resp.Version = &v
	}
	return resp
}

// ToAgentResponse converts an agent and its draft.
func ToAgentResponse(a *domain.Agent, draft *domain.VersionDetail) AgentResponse {
	return AgentResponse{
		ID:               a.ID,
		Enabled:          a.Enabled,
		CurrentVersionNo: a.CurrentVersionNo,
		RollbackPending:  a.RollbackPending,
		CreatedBy:        a.CreatedBy,
		UpdatedBy:        a.UpdatedBy,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Draft:            ToDetailResponse(draft),
	}
}

// ToPublishedListResponse converts the published catalog.
func ToPublishedListResponse(published []service.PublishedAgent) PublishedListResponse {
	items := make([]PublishedAgentResponse, 0, len(published))
	for _, p := range published {
		items = append(items, PublishedAgentResponse{
			ID:               p.Agent.ID,
			CurrentVersionNo: p.Agent.CurrentVersionNo,
			Detail:           toDetailResponse(p.Detail, p.UnavailableReasons),
		})
	}
	return PublishedListResponse{Items: items}
}

// ToComparisonResponse converts a comparison.
func ToComparisonResponse(c *domain.Comparison) ComparisonResponse {
	return ComparisonResponse{
		VersionA:       ToDetailResponse(c.VersionA),
		VersionB:       ToDetailResponse(c.VersionB),
		Fields:         toFieldComparisons(c.Fields),
		Differences:    toFieldComparisons(c.Differences),
		HasDifferences: c.HasDifferences(),
	}
}

func toFieldComparisons(fields []domain.FieldComparison) []FieldComparisonResponse {
	out := make([]FieldComparisonResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldComparisonResponse{
			Field:   f.Field,
			Label:   f.Label,
			ValueA:  f.ValueA,
			ValueB:  f.ValueB,
			Changed: f.Changed,
		})
	}
	return out
}

// ToRollbackResponse converts a rollback result.
func ToRollbackResponse(r *service.RollbackResult) RollbackResponse {
	return RollbackResponse{
		AgentID:          r.Agent.ID,
		CurrentVersionNo: r.Agent.CurrentVersionNo,
		Draft:            ToDetailResponse(r.Draft),
		Comparison:       ToComparisonResponse(r.Comparison),
	}
}

// ToEventListResponse converts the audit log.
func ToEventListResponse(events []*domain.VersionEvent) EventListResponse {
	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, EventResponse{
			ID:            e.ID,
			VersionNo:     e.VersionNo,
			ActorID:       e.ActorID,
			Type:          string(e.Type),
			OldStatus:     statusString(e.OldStatus),
			NewStatus:     statusString(e.NewStatus),
			FromVersionNo: e.FromVersionNo,
			CreatedAt:     e.CreatedAt,
		})
	}
	return EventListResponse{Items: items}
}

func statusString(s *domain.VersionStatus) *string {
	if s == nil {
		return nil
	}
	out := string(*s)
	return &out
}
