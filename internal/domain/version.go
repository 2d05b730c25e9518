package domain

import (
	"slices"
	"time"
)

// VersionStatus represents the status of a published version.
type VersionStatus string

const (
	VersionStatusActive   VersionStatus = "ACTIVE"
	VersionStatusDisabled VersionStatus = "DISABLED"
	VersionStatusArchived VersionStatus = "ARCHIVED"
)

// IsValid checks if the status is one of the allowed values.
func (s VersionStatus) IsValid() bool {
	switch s {
	case VersionStatusActive, VersionStatusDisabled, VersionStatusArchived:
		return true
	default:
		return false
	}
}

// SourceType records how the draft that produced a version came to be.
type SourceType string

const (
	SourceTypeNormal   SourceType = "NORMAL"
	SourceTypeRollback SourceType = "ROLLBACK"
)

// AgentVersion is the metadata of an immutable published snapshot.
// Only Status, UpdatedBy and UpdatedAt change after creation.
type AgentVersion struct {
	ID              int64
	AgentID         int64
	VersionNo       int
	VersionName     string
	ReleaseNote     string
	SourceType      SourceType
	SourceVersionNo *int
	Status          VersionStatus
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone returns a copy that shares nothing with the receiver.
func (v *AgentVersion) Clone() *AgentVersion {
	if v == nil {
		return nil
	}
	out := *v
	if v.SourceVersionNo != nil {
		n := *v.SourceVersionNo
		out.SourceVersionNo = &n
	}
	return &out
}

// Unavailability reasons reported for a detail.
const (
	ReasonModelNotConfigured = "model_not_configured"
	ReasonNoTools            = "no_tools"
	ReasonAllToolsDisabled   = "all_tools_disabled"
	ReasonDuplicateName      = "duplicate_name"
)

// VersionDetail is a full configuration snapshot. VersionNo 0 with a nil Version is the live draft.
type VersionDetail struct {
	AgentID     int64
	VersionNo   int
	Version     *AgentVersion
	Profile     AgentProfile
	Tools       []ToolInstance
	SubAgentIDs []int64
}

// IsDraft reports whether the detail describes the live draft.
func (d *VersionDetail) IsDraft() bool {
	return d.VersionNo == DraftVersionNo
}

// Clone returns a deep copy.
func (d *VersionDetail) Clone() *VersionDetail {
	if d == nil {
		return nil
	}
	return &VersionDetail{
		AgentID:     d.AgentID,
		VersionNo:   d.VersionNo,
		Version:     d.Version.Clone(),
		Profile:     d.Profile.Clone(),
		Tools:       CloneTools(d.Tools),
		SubAgentIDs: slices.Clone(d.SubAgentIDs),
	}
}

// UnavailableReasons lists why the configuration could not run as is.
func (d *VersionDetail) UnavailableReasons() []string {
	reasons := []string{}
	if d.Profile.ModelID == 0 {
		reasons = append(reasons, ReasonModelNotConfigured)
	}
	if len(d.Tools) == 0 {
		reasons = append(reasons, ReasonNoTools)
	} else if !slices.ContainsFunc(d.Tools, func(t ToolInstance) bool { return t.Enabled }) {
		reasons = append(reasons, ReasonAllToolsDisabled)
	}
	return reasons
}

// VersionFilter narrows a version listing. Zero Limit means no limit.
type VersionFilter struct {
	Status *VersionStatus
	Limit  int
	Offset int
}

// VersionPage is one page of a version listing.
type VersionPage struct {
	Items []*AgentVersion
	Total int
}

// Apply filters and pages an already ordered list, returning the page and the filtered total.
func (f VersionFilter) Apply(versions []*AgentVersion) ([]*AgentVersion, int) {
	matched := versions
	if f.Status != nil {
		matched = make([]*AgentVersion, 0, len(versions))
		for _, v := range versions {
			if v.Status == *f.Status {
				matched = append(matched, v)
			}
		}
	}

	total := len(matched)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return matched[start:end], total
}
