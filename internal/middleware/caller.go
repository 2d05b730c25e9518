package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

type contextKey string

const (
	// ContextKeyCaller is the key for storing the caller in request context.
	ContextKeyCaller contextKey = "caller"

	// HeaderTenantID carries the tenant resolved by the upstream gateway.
	HeaderTenantID = "X-Tenant-ID"
	// HeaderUserID carries the acting user resolved by the upstream gateway.
	HeaderUserID = "X-User-ID"
)

// RequireCaller reads the caller identity set by the gateway and adds it to the request context.
// Requests without a tenant are rejected.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.Header.Get(HeaderTenantID))
		if tenantID == "" {
			writeError(w, http.StatusUnauthorized, "MISSING_TENANT", "missing "+HeaderTenantID+" header")
			return
		}

		caller := domain.Caller{
			TenantID: tenantID,
			UserID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// GetCallerFromContext retrieves the caller from request context.
func GetCallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(ContextKeyCaller).(domain.Caller)
	return caller, ok && caller.TenantID != ""
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.NewErrorResponse(code, message)); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
