package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"agent not found", fmt.Errorf("publish: %w", domain.ErrAgentNotFound), http.StatusNotFound, "AGENT_NOT_FOUND"},
		{"version not found", domain.ErrVersionNotFound, http.StatusNotFound, "VERSION_NOT_FOUND"},
		{"name taken", fmt.Errorf("%w: %q", domain.ErrVersionNameTaken, "V1"), http.StatusUnprocessableEntity, "VERSION_NAME_TAKEN"},
		{"rollback to current", domain.ErrRollbackToCurrent, http.StatusUnprocessableEntity, "ROLLBACK_TO_CURRENT"},
		{"draft version", domain.ErrDraftVersion, http.StatusUnprocessableEntity, "DRAFT_VERSION"},
		{"generic validation", domain.ErrInvalidPagination, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"delete current", domain.ErrDeleteCurrentVersion, http.StatusConflict, "DELETE_CURRENT_VERSION"},
		{"stale", domain.ErrStaleVersion, http.StatusConflict, "STALE_VERSION"},
		{"generic conflict", domain.ErrVersionExists, http.StatusConflict, "CONFLICT"},
		{"transient", fmt.Errorf("list versions: %w: %w", domain.ErrTransient, errors.New("conn reset")), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_HidesInternalMessages(t *testing.T) {
	_, _, message := MapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", message)

	_, _, message = MapDomainError(fmt.Errorf("%w: %w", domain.ErrTransient, errors.New("dial tcp 10.0.0.1:5432")))
	assert.Equal(t, "Service temporarily unavailable", message)
}
