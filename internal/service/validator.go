package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mtlprog/agentdesk/internal/domain"
)

const (
	maxVersionNameLength = 100
	maxReleaseNoteLength = 2000
)

// allowedTransitions lists the permitted version status changes.
var allowedTransitions = map[domain.VersionStatus][]domain.VersionStatus{
	domain.VersionStatusActive:   {domain.VersionStatusDisabled, domain.VersionStatusArchived},
	domain.VersionStatusDisabled: {domain.VersionStatusActive},
	domain.VersionStatusArchived: {domain.VersionStatusActive},
}

// Validator handles input and state validation for versioning operations.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// NormalizePublish trims the version name and checks lengths.
func (v *Validator) NormalizePublish(params PublishParams) (PublishParams, error) {
	params.VersionName = strings.TrimSpace(params.VersionName)

	if utf8.RuneCountInString(params.VersionName) > maxVersionNameLength {
		return params, fmt.Errorf("%w: max %d characters", domain.ErrVersionNameTooLong, maxVersionNameLength)
	}
	if utf8.RuneCountInString(params.ReleaseNote) > maxReleaseNoteLength {
		return params, fmt.Errorf("%w: max %d characters", domain.ErrReleaseNoteTooLong, maxReleaseNoteLength)
	}
	return params, nil
}

// CheckVersionNo rejects the draft sentinel and negative numbers where a published version is required.
func (v *Validator) CheckVersionNo(versionNo int) error {
	if versionNo == domain.DraftVersionNo {
		return domain.ErrDraftVersion
	}
	if versionNo < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidVersionNo, versionNo)
	}
	return nil
}

// CheckExpected rejects the operation if the caller saw a different current version.
func (v *Validator) CheckExpected(agent *domain.Agent, expected *int) error {
	if expected != nil && *expected != agent.CurrentVersionNo {
		return fmt.Errorf("%w: expected %d, current is %d", domain.ErrStaleVersion, *expected, agent.CurrentVersionNo)
	}
	return nil
}

// CanRollback validates if the draft of agent can be rolled back to target.
func (v *Validator) CanRollback(agent *domain.Agent, target *domain.AgentVersion) error {
	if target.VersionNo == agent.CurrentVersionNo {
		return fmt.Errorf("%w: version %d", domain.ErrRollbackToCurrent, target.VersionNo)
	}
	if target.Status == domain.VersionStatusDisabled {
		return fmt.Errorf("%w: version %d", domain.ErrVersionDisabled, target.VersionNo)
	}
	return nil
}

// CanDelete validates if version can be deleted.
func (v *Validator) CanDelete(agent *domain.Agent, version *domain.AgentVersion) error {
	if version.VersionNo == agent.CurrentVersionNo {
		return fmt.Errorf("%w: version %d", domain.ErrDeleteCurrentVersion, version.VersionNo)
	}
	return nil
}

// CanChangeStatus validates a status change of version.
func (v *Validator) CanChangeStatus(agent *domain.Agent, version *domain.AgentVersion, newStatus domain.VersionStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	if !isAllowedTransition(version.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, version.Status, newStatus)
	}

	if version.VersionNo == agent.CurrentVersionNo && newStatus != domain.VersionStatusActive {
		return fmt.Errorf("%w: version %d", domain.ErrCurrentVersionStatus, version.VersionNo)
	}

	return nil
}

func isAllowedTransition(from, to domain.VersionStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateDraft checks a draft configuration before it is stored.
// agentID is 0 for an agent that does not exist yet.
func (v *Validator) ValidateDraft(agentID int64, params DraftParams) error {
	if err := params.Profile.Validate(); err != nil {
		return err
	}

	for _, tool := range params.Tools {
		if err := tool.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[int64]struct{}, len(params.SubAgentIDs))
	for _, id := range params.SubAgentIDs {
		if id <= 0 {
			return fmt.Errorf("%w: sub-agent id %d", domain.ErrInvalidAgentProfile, id)
		}
		if agentID != 0 && id == agentID {
			return domain.ErrSubAgentSelfRelation
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate sub-agent id %d", domain.ErrInvalidAgentProfile, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
