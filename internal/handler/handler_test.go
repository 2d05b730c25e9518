package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/agentdesk/internal/handler"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/middleware"
	"github.com/mtlprog/agentdesk/internal/repository/memory"
)

type HandlerTestSuite struct {
	suite.Suite
	mux *http.ServeMux

	tenantID string
	userID   string
}

func (s *HandlerTestSuite) SetupTest() {
	reg := prometheus.NewRegistry()
	h := handler.New(memory.New(), handler.Options{
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})

	s.mux = http.NewServeMux()
	h.RegisterRoutes(s.mux)

	s.tenantID = "tenant-1"
	s.userID = "user-1"
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// Helper to make a request as the test tenant
func (s *HandlerTestSuite) makeRequest(method, path, tenantID string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	switch b := body.(type) {
	case nil:
		bodyReader = bytes.NewReader([]byte{})
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	default:
		bodyBytes, err := json.Marshal(b)
		s.Require().NoError(err)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set(middleware.HeaderTenantID, tenantID)
		req.Header.Set(middleware.HeaderUserID, s.userID)
	}

	w := httptest.NewRecorder()
	middleware.RequestLogger(s.mux).ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.NewDecoder(w.Body).Decode(dst), w.Body.String())
}

func (s *HandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var errResp dto.ErrorResponse
	s.decode(w, &errResp)
	return errResp.Error.Code
}

// Helper: createAgent creates an agent through the API and returns its id.
func (s *HandlerTestSuite) createAgent(name string) int64 {
	w := s.makeRequest("POST", "/agent", s.tenantID, `{
		"name": "`+name+`",
		"model_id": 7,
		"model_name": "gpt-large",
		"max_steps": 10,
		"duty_prompt": "help",
		"group_ids": [1],
		"tools": [{"tool_id": 3, "enabled": true, "params": {"url": "https://example.test", "depth": 2, "tags": ["a"]}}]
	}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AgentResponse
	s.decode(w, &resp)
	return resp.ID
}

func (s *HandlerTestSuite) publish(agentID int64, body any) dto.VersionResponse {
	w := s.makeRequest("POST", fmt.Sprintf("/agent/%d/publish", agentID), s.tenantID, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.VersionResponse
	s.decode(w, &resp)
	return resp
}

func (s *HandlerTestSuite) TestMissingTenant() {
	w := s.makeRequest("GET", "/agent/1/versions", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("MISSING_TENANT", s.errorCode(w))
}

func (s *HandlerTestSuite) TestRequestID() {
	w := s.makeRequest("GET", "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(middleware.HeaderRequestID))
}

func (s *HandlerTestSuite) TestCreateAndGetAgent() {
	agentID := s.createAgent("support")

	w := s.makeRequest("GET", fmt.Sprintf("/agent/%d", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.AgentResponse
	s.decode(w, &resp)
	s.Equal(agentID, resp.ID)
	s.Equal(0, resp.CurrentVersionNo)
	s.Equal("support", resp.Draft.Profile.Name)
	s.Nil(resp.Draft.Version)
	s.True(resp.Draft.IsAvailable)
	s.Require().Len(resp.Draft.Tools, 1)
	s.Len(resp.Draft.Tools[0].Params, 3)

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d", agentID), "tenant-2", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("AGENT_NOT_FOUND", s.errorCode(w))
}

func (s *HandlerTestSuite) TestCreateAgent_Validation() {
	w := s.makeRequest("POST", "/agent", s.tenantID, `{"name": ""}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(w))

	w = s.makeRequest("POST", "/agent", s.tenantID, `{"name": "a", "tools": [{"tool_id": 1, "params": {"x": null}}]}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("INVALID_TOOL_PARAM", s.errorCode(w))

	w = s.makeRequest("POST", "/agent", s.tenantID, `{"name": `)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_JSON", s.errorCode(w))
}

func (s *HandlerTestSuite) TestPublishListAndDetail() {
	agentID := s.createAgent("support")

	v1 := s.publish(agentID, dto.PublishRequest{VersionName: "V1", ReleaseNote: "first"})
	s.Equal(1, v1.VersionNo)
	s.Equal("ACTIVE", v1.Status)
	s.Equal("NORMAL", v1.SourceType)
	s.Nil(v1.SourceVersionNo)

	v2 := s.publish(agentID, nil)
	s.Equal("V2", v2.VersionName)

	w := s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.VersionListResponse
	s.decode(w, &list)
	s.Equal(2, list.Total)
	s.Require().Len(list.Items, 2)
	s.Equal(2, list.Items[0].VersionNo)
	s.Equal(1, list.Items[1].VersionNo)

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions?limit=1&offset=1", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &list)
	s.Equal(2, list.Total)
	s.Require().Len(list.Items, 1)
	s.Equal(1, list.Items[0].VersionNo)

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions/1", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.DetailResponse
	s.decode(w, &detail)
	s.Equal(1, detail.VersionNo)
	s.Require().NotNil(detail.Version)
	s.Equal("first", detail.Version.ReleaseNote)

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions/current", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &detail)
	s.Equal(2, detail.VersionNo)

	w = s.makeRequest("POST", fmt.Sprintf("/agent/%d/publish", agentID), s.tenantID, dto.PublishRequest{VersionName: "V1"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VERSION_NAME_TAKEN", s.errorCode(w))
}

func (s *HandlerTestSuite) TestListVersions_EmptyAndInvalid() {
	w := s.makeRequest("GET", "/agent/0/versions", s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"items": [], "total": 0}`, w.Body.String())

	w = s.makeRequest("GET", "/agent/abc/versions", s.tenantID, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.makeRequest("GET", "/agent/1/versions?limit=x", s.tenantID, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.makeRequest("GET", "/agent/1/versions/abc", s.tenantID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCurrentVersion_Null() {
	agentID := s.createAgent("support")

	w := s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions/current", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("null", strings.TrimSpace(w.Body.String()))
}

func (s *HandlerTestSuite) TestRollbackDeleteScenario() {
	agentID := s.createAgent("support")
	s.publish(agentID, dto.PublishRequest{VersionName: "V1"})

	w := s.makeRequest("PUT", fmt.Sprintf("/agent/%d", agentID), s.tenantID, dto.AgentRequest{
		Name:       "support",
		ModelID:    7,
		ModelName:  "gpt-large",
		MaxSteps:   10,
		DutyPrompt: "help more",
		Tools:      []dto.ToolInstance{{ToolID: 3, Enabled: true}},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.publish(agentID, nil)

	w = s.makeRequest("POST", fmt.Sprintf("/agent/%d/versions/1/rollback", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rollback dto.RollbackResponse
	s.decode(w, &rollback)
	s.Equal(1, rollback.CurrentVersionNo)
	s.Equal("help", rollback.Draft.Profile.DutyPrompt)
	s.True(rollback.Comparison.HasDifferences)

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions", agentID), s.tenantID, nil)
	var list dto.VersionListResponse
	s.decode(w, &list)
	s.Equal(2, list.Total, "rollback creates no version")

	w = s.makeRequest("DELETE", fmt.Sprintf("/agent/%d/versions/1", agentID), s.tenantID, nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("DELETE_CURRENT_VERSION", s.errorCode(w))

	w = s.makeRequest("POST", fmt.Sprintf("/agent/%d/versions/2/rollback", agentID), s.tenantID, `{"expected_current_version_no": 1}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest("DELETE", fmt.Sprintf("/agent/%d/versions/1", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(fmt.Sprintf(`{"deleted": true, "agent_id": %d, "version_no": 1}`, agentID), w.Body.String())

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions/1", agentID), s.tenantID, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("VERSION_NOT_FOUND", s.errorCode(w))

	w = s.makeRequest("POST", fmt.Sprintf("/agent/%d/versions/2/rollback", agentID), s.tenantID, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("ROLLBACK_TO_CURRENT", s.errorCode(w))

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions/events", agentID), s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var events dto.EventListResponse
	s.decode(w, &events)
	s.Len(events.Items, 5)
}

func (s *HandlerTestSuite) TestUpdateStatus() {
	agentID := s.createAgent("support")
	s.publish(agentID, nil)
	s.publish(agentID, nil)

	path := fmt.Sprintf("/agent/%d/versions/1/status", agentID)

	w := s.makeRequest("PATCH", path, s.tenantID, dto.UpdateStatusRequest{Status: "DISABLED"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var version dto.VersionResponse
	s.decode(w, &version)
	s.Equal("DISABLED", version.Status)

	w = s.makeRequest("PATCH", path, s.tenantID, dto.UpdateStatusRequest{Status: "ARCHIVED"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("INVALID_TRANSITION", s.errorCode(w))

	w = s.makeRequest("PATCH", path, s.tenantID, dto.UpdateStatusRequest{Status: "paused"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("PATCH", fmt.Sprintf("/agent/%d/versions/2/status", agentID), s.tenantID, dto.UpdateStatusRequest{Status: "ARCHIVED"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("CURRENT_VERSION_STATUS", s.errorCode(w))

	w = s.makeRequest("POST", fmt.Sprintf("/agent/%d/versions/1/rollback", agentID), s.tenantID, nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("VERSION_DISABLED", s.errorCode(w))

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions?status=DISABLED", agentID), s.tenantID, nil)
	var list dto.VersionListResponse
	s.decode(w, &list)
	s.Equal(1, list.Total)
}

func (s *HandlerTestSuite) TestCompare() {
	agentID := s.createAgent("support")
	s.publish(agentID, nil)

	path := fmt.Sprintf("/agent/%d/versions/compare", agentID)

	w := s.makeRequest("POST", path, s.tenantID, `{"version_no_a": 0, "version_no_b": 1}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cmp dto.ComparisonResponse
	s.decode(w, &cmp)
	s.False(cmp.HasDifferences)
	s.Len(cmp.Fields, 9)
	s.Empty(cmp.Differences)
	s.Nil(cmp.VersionA.Version)
	s.NotNil(cmp.VersionB.Version)

	w = s.makeRequest("POST", path, s.tenantID, `{"version_no_a": 1}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("POST", path, s.tenantID, `{"version_no_a": 1, "version_no_b": 5}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestStaleExpectedVersion() {
	agentID := s.createAgent("support")
	s.publish(agentID, nil)

	w := s.makeRequest("POST", fmt.Sprintf("/agent/%d/publish", agentID), s.tenantID, `{"expected_current_version_no": 0}`)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("STALE_VERSION", s.errorCode(w))
}

func (s *HandlerTestSuite) TestListPublished() {
	first := s.createAgent("support")
	s.publish(first, nil)
	s.createAgent("draft-only")

	w := s.makeRequest("GET", "/agent/published", s.tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.PublishedListResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Items, 1)
	s.Equal(first, resp.Items[0].ID)
	s.True(resp.Items[0].Detail.IsAvailable)

	w = s.makeRequest("GET", "/agent/published?group_ids=9", s.tenantID, nil)
	s.decode(w, &resp)
	s.Empty(resp.Items)

	w = s.makeRequest("GET", "/agent/published?group_ids=x", s.tenantID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestOperationalRoutes() {
	s.createAgent("support")

	w := s.makeRequest("GET", "/api.md", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "# agentdesk API")

	w = s.makeRequest("GET", "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `agentdesk_version_operations_total{operation="create_agent",result="ok"} 1`)
}

func (s *HandlerTestSuite) TestSwaggerDoc() {
	w := s.makeRequest("GET", "/swagger/doc.json", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	s.decode(w, &doc)
	s.Equal("agentdesk API", doc.Info.Title)
	s.Contains(doc.Paths, "/agent/{id}/publish")
	s.Contains(doc.Paths["/agent/{id}/versions/{versionNo}"], "delete")
	s.Contains(doc.Paths["/agent/{id}/versions/{versionNo}/status"], "patch")
}

func (s *HandlerTestSuite) TestOversizedBody() {
	agentID := s.createAgent("support")

	body := `{"release_note": "` + strings.Repeat("x", 2<<20) + `"}`
	w := s.makeRequest("POST", fmt.Sprintf("/agent/%d/publish", agentID), s.tenantID, body)
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Equal("REQUEST_TOO_LARGE", s.errorCode(w))

	w = s.makeRequest("GET", fmt.Sprintf("/agent/%d/versions", agentID), s.tenantID, nil)
	var page dto.VersionListResponse
	s.decode(w, &page)
	s.Zero(page.Total)
}

func (s *HandlerTestSuite) TestCreateAgent_ImpreciseIntegerParam() {
	w := s.makeRequest("POST", "/agent", s.tenantID, `{
		"name": "support",
		"tools": [{"tool_id": 3, "enabled": true, "params": {"id": 9007199254740993}}]
	}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	s.Equal("INVALID_TOOL_PARAM", s.errorCode(w))
}
