package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/agentdesk/docs" // Swagger description for /swagger/

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/middleware"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
	"github.com/mtlprog/agentdesk/internal/static"
)

// Options are the optional collaborators of a Handler. Leave Cache and Notifier
// nil to run without Redis.
type Options struct {
	Cache     service.VersionCache
	Notifier  service.ChangeNotifier
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	ReadRetry service.ReadRetry
}

// pinger is implemented by stores that can check their backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store      repository.Store
	lifecycle  *service.VersionLifecycle
	query      *service.VersionQueryService
	comparator *service.VersionComparator
	agents     *service.AgentService
	gatherer   prometheus.Gatherer
}

// New creates a new Handler instance with all dependencies.
func New(store repository.Store, opts Options) *Handler {
	return &Handler{
		store:      store,
		lifecycle:  service.NewVersionLifecycle(store, opts.Cache, opts.Notifier, opts.Metrics),
		query:      service.NewVersionQueryService(store, opts.Cache, opts.Metrics, opts.ReadRetry),
		comparator: service.NewVersionComparator(store, opts.Metrics, opts.ReadRetry),
		agents:     service.NewAgentService(store, opts.Metrics, opts.ReadRetry),
		gatherer:   opts.Gatherer,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Operations
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /api.md", h.handleAPIMd)
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())
	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	// Drafts
	mux.Handle("POST /agent", middleware.RequireCaller(http.HandlerFunc(h.handleCreateAgent)))
	mux.Handle("GET /agent/published", middleware.RequireCaller(http.HandlerFunc(h.handleListPublished)))
	mux.Handle("GET /agent/{id}", middleware.RequireCaller(http.HandlerFunc(h.handleGetAgent)))
	mux.Handle("PUT /agent/{id}", middleware.RequireCaller(http.HandlerFunc(h.handleUpdateAgent)))

	// Versions
	mux.Handle("GET /agent/{id}/versions", middleware.RequireCaller(http.HandlerFunc(h.handleListVersions)))
	mux.Handle("GET /agent/{id}/versions/current", middleware.RequireCaller(http.HandlerFunc(h.handleGetCurrentVersion)))
	mux.Handle("GET /agent/{id}/versions/events", middleware.RequireCaller(http.HandlerFunc(h.handleListEvents)))
	mux.Handle("GET /agent/{id}/versions/{versionNo}", middleware.RequireCaller(http.HandlerFunc(h.handleGetVersion)))
	mux.Handle("POST /agent/{id}/publish", middleware.RequireCaller(http.HandlerFunc(h.handlePublish)))
	mux.Handle("POST /agent/{id}/versions/{versionNo}/rollback", middleware.RequireCaller(http.HandlerFunc(h.handleRollback)))
	mux.Handle("DELETE /agent/{id}/versions/{versionNo}", middleware.RequireCaller(http.HandlerFunc(h.handleDeleteVersion)))
	mux.Handle("PATCH /agent/{id}/versions/{versionNo}/status", middleware.RequireCaller(http.HandlerFunc(h.handleUpdateStatus)))
	mux.Handle("POST /agent/{id}/versions/compare", middleware.RequireCaller(http.HandlerFunc(h.handleCompare)))
}

// handleHealthz returns 200 OK if the store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			slog.Error("database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIMd serves the embedded API notes.
func (h *Handler) handleAPIMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, static.APIMd); err != nil {
		slog.Error("failed to write api.md", "error", err)
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err to its HTTP status and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// maxBodyBytes caps request bodies. The largest legitimate body is a draft with its tool params.
const maxBodyBytes = 1 << 20

// decodeBody decodes the JSON body into dst. An empty body leaves dst untouched.
// Returns false if the body is malformed or too large (error already sent to client).
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var tooLarge *http.MaxBytesError
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
			"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		return false
	case errors.Is(err, domain.ErrValidation):
		respondDomainError(w, err)
		return false
	default:
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
}

// callerFrom extracts the caller set by middleware.RequireCaller.
func callerFrom(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := middleware.GetCallerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "MISSING_TENANT", "missing "+middleware.HeaderTenantID+" header")
		return domain.Caller{}, false
	}
	return caller, true
}

// extractAgentID extracts and validates the agent id path parameter.
// Returns (agentID, true) if valid, (0, false) if invalid (error already sent to client).
func extractAgentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	agentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || agentID < 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "agent id must be a non-negative integer")
		return 0, false
	}
	return agentID, true
}

// extractVersionNo extracts the versionNo path parameter.
func extractVersionNo(w http.ResponseWriter, r *http.Request) (int, bool) {
	versionNo, err := strconv.Atoi(r.PathValue("versionNo"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "version number must be an integer")
		return 0, false
	}
	return versionNo, true
}
