package domain

import "errors"

// Error kinds. Every domain error unwraps to exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	// ErrTransient marks storage or network failures that are safe to retry for idempotent reads.
	ErrTransient = errors.New("temporarily unavailable")
)

// kindError is a sentinel with its own message that unwraps to an error kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Domain-specific errors for business logic validation.
var (
	// Not found
	ErrAgentNotFound   = newError(ErrNotFound, "agent not found")
	ErrVersionNotFound = newError(ErrNotFound, "version not found")

	// Validation
	ErrInvalidAgentID       = newError(ErrValidation, "invalid agent id")
	ErrInvalidVersionNo     = newError(ErrValidation, "invalid version number")
	ErrDraftVersion         = newError(ErrValidation, "version 0 is the draft and cannot be modified")
	ErrVersionNameTaken     = newError(ErrValidation, "version name already exists")
	ErrVersionNameTooLong   = newError(ErrValidation, "version name is too long")
	ErrReleaseNoteTooLong   = newError(ErrValidation, "release note is too long")
	ErrRollbackToCurrent    = newError(ErrValidation, "version is already the current version")
	ErrInvalidStatus        = newError(ErrValidation, "invalid version status")
	ErrInvalidToolParam     = newError(ErrValidation, "invalid tool parameter")
	ErrInvalidAgentProfile  = newError(ErrValidation, "invalid agent profile")
	ErrInvalidPagination    = newError(ErrValidation, "invalid pagination")
	ErrSubAgentSelfRelation = newError(ErrValidation, "agent cannot be its own sub-agent")

	// Conflict
	ErrDeleteCurrentVersion = newError(ErrConflict, "cannot delete the active version")
	ErrCurrentVersionStatus = newError(ErrConflict, "cannot disable or archive the active version")
	ErrInvalidTransition    = newError(ErrConflict, "invalid status transition")
	ErrVersionDisabled      = newError(ErrConflict, "version is disabled and must be restored first")
	ErrStaleVersion         = newError(ErrConflict, "current version changed concurrently")
	ErrVersionExists        = newError(ErrConflict, "version number already exists")
)
