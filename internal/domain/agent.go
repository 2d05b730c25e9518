package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DraftVersionNo addresses the live draft wherever a version number is expected.
const DraftVersionNo = 0

// Caller identifies who issues a request. Both values come from the upstream gateway.
type Caller struct {
	TenantID string
	UserID   string
}

// AgentProfile holds the versionable scalar configuration of an agent.
type AgentProfile struct {
	Name                   string
	DisplayName            string
	Description            string
	Author                 string
	ModelID                int64
	ModelName              string
	MaxSteps               int
	ProvideRunSummary      bool
	DutyPrompt             string
	ConstraintPrompt       string
	FewShotsPrompt         string
	BusinessDescription    string
	BusinessLogicModelID   int64
	BusinessLogicModelName string
	GroupIDs               []int64
}

// Clone returns a deep copy.
func (p AgentProfile) Clone() AgentProfile {
	out := p
	out.GroupIDs = slices.Clone(p.GroupIDs)
	return out
}

// Validate checks the fields an agent draft must satisfy.
func (p AgentProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAgentProfile)
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative", ErrInvalidAgentProfile)
	}
	return nil
}

// Agent is the mutable draft of an agent configuration.
type Agent struct {
	ID               int64
	TenantID         string
	Profile          AgentProfile
	Enabled          bool
	CurrentVersionNo int
	// RollbackPending is set by a rollback and cleared by the next publish.
	RollbackPending bool
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPublished reports whether the agent has a current published version.
func (a *Agent) IsPublished() bool {
	return a.CurrentVersionNo > DraftVersionNo
}

// ToolInstance is a tool attached to an agent with its configured parameters.
type ToolInstance struct {
	ToolID  int64
	Enabled bool
	Params  ToolParams
}

// Clone returns a deep copy.
func (t ToolInstance) Clone() ToolInstance {
	out := t
	out.Params = t.Params.Clone()
	return out
}

// Validate checks the tool id and its parameters.
func (t ToolInstance) Validate() error {
	if t.ToolID <= 0 {
		return fmt.Errorf("%w: tool id must be positive", ErrInvalidToolParam)
	}
	if err := t.Params.Validate(); err != nil {
		return fmt.Errorf("tool %d: %w", t.ToolID, err)
	}
	return nil
}

// CloneTools deep-copies a tool list. A nil list stays nil.
func CloneTools(tools []ToolInstance) []ToolInstance {
	if tools == nil {
		return nil
	}
	out := make([]ToolInstance, len(tools))
	for i, t := range tools {
		out[i] = t.Clone()
	}
	return out
}
