package handler

import (
	"net/http"
	"strconv"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

// handleListVersions lists the agent's versions, newest first.
// @Summary List versions
// @Description Non-deleted versions, newest first. Agent id 0 returns an empty page.
// @Tags versions
// @Produce json
// @Param id path int true "Agent ID"
// @Param status query string false "Filter by status: ACTIVE, DISABLED, ARCHIVED"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.VersionListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions [get]
func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	filter, ok := parseVersionFilter(w, r)
	if !ok {
		return
	}

	page, err := h.query.ListVersions(r.Context(), caller, agentID, filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToVersionListResponse(page))
}

// parseVersionFilter reads ?status=&limit=&offset=.
func parseVersionFilter(w http.ResponseWriter, r *http.Request) (domain.VersionFilter, bool) {
	query := r.URL.Query()
	var filter domain.VersionFilter

	if status := query.Get("status"); status != "" {
		s := domain.VersionStatus(status)
		filter.Status = &s
	}

	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be an integer")
			return filter, false
		}
		*dst = n
	}

	return filter, true
}

// handleGetVersion returns the full snapshot of one version.
// @Summary Get a version
// @Description Returns the full snapshot of a published version.
// @Tags versions
// @Produce json
// @Param id path int true "Agent ID"
// @Param versionNo path int true "Version number"
// @Success 200 {object} dto.DetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/{versionNo} [get]
func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}
	versionNo, ok := extractVersionNo(w, r)
	if !ok {
		return
	}

	detail, err := h.query.GetVersionDetail(r.Context(), caller, agentID, versionNo)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToDetailResponse(detail))
}

// handleGetCurrentVersion returns the current version, or null if the agent was never published.
// @Summary Get the current version
// @Tags versions
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} dto.DetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/current [get]
func (h *Handler) handleGetCurrentVersion(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	detail, err := h.query.GetCurrentVersion(r.Context(), caller, agentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if detail == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToDetailResponse(detail))
}

// handleListEvents returns the version audit trail.
// @Summary List version events
// @Tags versions
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} dto.EventListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/events [get]
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	events, err := h.query.ListEvents(r.Context(), caller, agentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// handlePublish publishes the draft as a new version.
// @Summary Publish the draft
// @Description Captures the draft as a new immutable version and makes it current.
// @Description Pass expected_current_version_no to fail with 409 if another publish or rollback got there first.
// @Tags versions
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param request body dto.PublishRequest true "Publish options"
// @Success 201 {object} dto.VersionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/publish [post]
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	var req dto.PublishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	version, err := h.lifecycle.Publish(r.Context(), caller, agentID, service.PublishParams{
		VersionName:              req.VersionName,
		ReleaseNote:              req.ReleaseNote,
		ExpectedCurrentVersionNo: req.ExpectedCurrentVersionNo,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToVersionResponse(version))
}

// handleRollback copies a version onto the draft and makes it current.
// @Summary Roll back to a version
// @Description Copies the version onto the draft and makes it current. No version is created.
// @Tags versions
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param versionNo path int true "Version number"
// @Param request body dto.RollbackRequest false "Rollback options"
// @Success 200 {object} dto.RollbackResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/{versionNo}/rollback [post]
func (h *Handler) handleRollback(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}
	versionNo, ok := extractVersionNo(w, r)
	if !ok {
		return
	}

	var req dto.RollbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.lifecycle.Rollback(r.Context(), caller, agentID, versionNo, req.ExpectedCurrentVersionNo)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToRollbackResponse(result))
}

// handleDeleteVersion soft-deletes a version.
// @Summary Delete a version
// @Description Soft-deletes a version. The current version cannot be deleted.
// @Tags versions
// @Produce json
// @Param id path int true "Agent ID"
// @Param versionNo path int true "Version number"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/{versionNo} [delete]
func (h *Handler) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}
	versionNo, ok := extractVersionNo(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.DeleteVersion(r.Context(), caller, agentID, versionNo); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: true, AgentID: agentID, VersionNo: versionNo})
}

// handleUpdateStatus changes the status of a version.
// @Summary Change version status
// @Description ACTIVE to DISABLED or ARCHIVED and back. The current version must stay ACTIVE.
// @Tags versions
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param versionNo path int true "Version number"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.VersionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/{versionNo}/status [patch]
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}
	versionNo, ok := extractVersionNo(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status is required")
		return
	}

	version, err := h.lifecycle.UpdateStatus(r.Context(), caller, agentID, versionNo, domain.VersionStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToVersionResponse(version))
}

// handleCompare compares two versions; version 0 is the draft.
// @Summary Compare two versions
// @Tags versions
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param request body dto.CompareRequest true "Versions to compare"
// @Success 200 {object} dto.ComparisonResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id}/versions/compare [post]
func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	var req dto.CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.VersionNoA == nil || req.VersionNoB == nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "version_no_a and version_no_b are required")
		return
	}

	cmp, err := h.comparator.Compare(r.Context(), caller, agentID, *req.VersionNoA, *req.VersionNoB)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToComparisonResponse(cmp))
}
