package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

// handleCreateAgent creates an unpublished agent draft.
// @Summary Create an agent draft
// @Description Creates an unpublished agent with its draft profile, tools and sub-agents.
// @Tags agents
// @Accept json
// @Produce json
// @Param request body dto.AgentRequest true "Agent draft"
// @Success 201 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.AgentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agent, draft, err := h.agents.CreateAgent(r.Context(), caller, req.ToDraftParams())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAgentResponse(agent, draft))
}

// handleGetAgent returns the agent and its draft.
// @Summary Get an agent draft
// @Tags agents
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id} [get]
func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	agent, draft, err := h.agents.GetDraft(r.Context(), caller, agentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent, draft))
}

// handleUpdateAgent replaces the draft.
// @Summary Replace an agent draft
// @Description Replaces the draft profile, tools and sub-agents. Published versions are not affected.
// @Tags agents
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param request body dto.AgentRequest true "Agent draft"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/{id} [put]
func (h *Handler) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	agentID, ok := extractAgentID(w, r)
	if !ok {
		return
	}

	var req dto.AgentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agent, draft, err := h.agents.UpdateDraft(r.Context(), caller, agentID, req.ToDraftParams())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent, draft))
}

// handleListPublished lists published agents, optionally filtered by ?group_ids=1,2.
// @Summary List published agents
// @Tags agents
// @Produce json
// @Param group_ids query string false "Comma-separated group ids"
// @Success 200 {object} dto.PublishedListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security TenantID
// @Router /agent/published [get]
func (h *Handler) handleListPublished(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var groupIDs []int64
	if raw := r.URL.Query().Get("group_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "group_ids must be a comma-separated list of integers")
				return
			}
			groupIDs = append(groupIDs, id)
		}
	}

	published, err := h.agents.ListPublished(r.Context(), caller, groupIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPublishedListResponse(published))
}
