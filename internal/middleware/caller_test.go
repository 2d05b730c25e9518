package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestRequireCaller(t *testing.T) {
	var got domain.Caller
	var called bool
	h := RequireCaller(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, called = GetCallerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/agent/1", nil)
	req.Header.Set(HeaderTenantID, " tenant-1 ")
	req.Header.Set(HeaderUserID, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.True(t, called)
	assert.Equal(t, domain.Caller{TenantID: "tenant-1", UserID: "user-1"}, got)
}

func TestRequireCaller_MissingTenant(t *testing.T) {
	called := false
	h := RequireCaller(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/agent/1", nil)
	req.Header.Set(HeaderTenantID, "   ")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TENANT")
}

func TestGetCallerFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetCallerFromContext(req.Context())
	assert.False(t, ok)

	_, ok = GetCallerFromContext(WithCaller(req.Context(), domain.Caller{}))
	assert.False(t, ok)
}
