package domain

// Compared field names.
const (
	FieldName             = "name"
	FieldModel            = "model"
	FieldMaxSteps         = "max_steps"
	FieldDescription      = "description"
	FieldDutyPrompt       = "duty_prompt"
	FieldConstraintPrompt = "constraint_prompt"
	FieldFewShotsPrompt   = "few_shots_prompt"
	FieldTools            = "tools"
	FieldSubAgents        = "sub_agents"
)

// ModelRef identifies the model a configuration uses.
type ModelRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToolSummary is the coarse view of a tool list used for comparison.
type ToolSummary struct {
	Count   int     `json:"count"`
	ToolIDs []int64 `json:"tool_ids"`
}

// FieldComparison holds both values of one compared field.
type FieldComparison struct {
	Field   string
	Label   string
	ValueA  any
	ValueB  any
	Changed bool
}

// Comparison is the result of comparing two details.
type Comparison struct {
	VersionA    *VersionDetail
	VersionB    *VersionDetail
	Fields      []FieldComparison
	Differences []FieldComparison
}

// HasDifferences reports whether any compared field changed.
func (c *Comparison) HasDifferences() bool {
	return len(c.Differences) > 0
}
