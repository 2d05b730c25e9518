// Package memory is an in-memory implementation of repository.Store.
// Transactions work on a copy of the state that replaces the live state on success,
// so a failed transaction leaves no partial effects.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

type snapshotKey struct {
	agentID   int64
	versionNo int
}

type versionRow struct {
	version domain.AgentVersion
	deleted bool
}

type state struct {
	lastAgentID   int64
	lastVersionID int64
	lastEventID   int64
	agents        map[int64]*domain.Agent
	profiles      map[snapshotKey]domain.AgentProfile
	tools         map[snapshotKey][]domain.ToolInstance
	relations     map[snapshotKey][]int64
	versions      map[snapshotKey]*versionRow
	events        []domain.VersionEvent
}

func newState() *state {
	return &state{
		agents:    make(map[int64]*domain.Agent),
		profiles:  make(map[snapshotKey]domain.AgentProfile),
		tools:     make(map[snapshotKey][]domain.ToolInstance),
		relations: make(map[snapshotKey][]int64),
		versions:  make(map[snapshotKey]*versionRow),
	}
}

func (s *state) clone() *state {
	out := &state{
		lastAgentID:   s.lastAgentID,
		lastVersionID: s.lastVersionID,
		lastEventID:   s.lastEventID,
		agents:        make(map[int64]*domain.Agent, len(s.agents)),
		profiles:      make(map[snapshotKey]domain.AgentProfile, len(s.profiles)),
		tools:         make(map[snapshotKey][]domain.ToolInstance, len(s.tools)),
		relations:     make(map[snapshotKey][]int64, len(s.relations)),
		versions:      make(map[snapshotKey]*versionRow, len(s.versions)),
		events:        slices.Clone(s.events),
	}
	for id, a := range s.agents {
		out.agents[id] = copyAgent(a)
	}
	for k, p := range s.profiles {
		out.profiles[k] = p.Clone()
	}
	for k, t := range s.tools {
		out.tools[k] = domain.CloneTools(t)
	}
	for k, r := range s.relations {
		out.relations[k] = slices.Clone(r)
	}
	for k, v := range s.versions {
		row := *v
		row.version = *v.version.Clone()
		out.versions[k] = &row
	}
	return out
}

func copyAgent(a *domain.Agent) *domain.Agent {
	out := *a
	out.Profile = a.Profile.Clone()
	return &out
}

// Store is an in-memory repository.Store.
type Store struct {
	mu    sync.RWMutex
	state *state
	now   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		state: newState(),
		now:   time.Now,
	}
}

var _ repository.Store = (*Store)(nil)

// InTx runs fn against a private copy of the state and publishes the copy only if fn succeeds.
// Transactions are serialized.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&view{st: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) read() *view {
	return &view{st: s.state, now: s.now}
}

// GetAgent retrieves an agent draft.
func (s *Store) GetAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetAgent(ctx, tenantID, agentID)
}

// ListPublishedAgents returns enabled agents with a current version, oldest first.
func (s *Store) ListPublishedAgents(ctx context.Context, tenantID string) ([]*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListPublishedAgents(ctx, tenantID)
}

// GetProfileSnapshot retrieves the profile captured for a version.
func (s *Store) GetProfileSnapshot(ctx context.Context, agentID int64, versionNo int) (*domain.AgentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetProfileSnapshot(ctx, agentID, versionNo)
}

// ListTools retrieves tool instances of a version.
func (s *Store) ListTools(ctx context.Context, agentID int64, versionNo int) ([]domain.ToolInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListTools(ctx, agentID, versionNo)
}

// ListSubAgentIDs retrieves sub-agent ids of a version.
func (s *Store) ListSubAgentIDs(ctx context.Context, agentID int64, versionNo int) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListSubAgentIDs(ctx, agentID, versionNo)
}

// GetVersion retrieves a non-deleted version.
func (s *Store) GetVersion(ctx context.Context, agentID int64, versionNo int) (*domain.AgentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetVersion(ctx, agentID, versionNo)
}

// ListVersions retrieves non-deleted versions, newest first.
func (s *Store) ListVersions(ctx context.Context, agentID int64, filter domain.VersionFilter) ([]*domain.AgentVersion, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListVersions(ctx, agentID, filter)
}

// ListEvents retrieves the audit trail of an agent.
func (s *Store) ListEvents(ctx context.Context, agentID int64) ([]*domain.VersionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListEvents(ctx, agentID)
}

// CountVersionRows counts version rows including soft-deleted ones.
func (s *Store) CountVersionRows(agentID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for k := range s.state.versions {
		if k.agentID == agentID {
			n++
		}
	}
	return n
}

// view implements repository.Tx over one state value.
type view struct {
	st  *state
	now func() time.Time
}

func (v *view) agent(tenantID string, agentID int64) (*domain.Agent, error) {
	a, ok := v.st.agents[agentID]
	if !ok || a.TenantID != tenantID {
		return nil, domain.ErrAgentNotFound
	}
	return a, nil
}

func (v *view) GetAgent(_ context.Context, tenantID string, agentID int64) (*domain.Agent, error) {
	a, err := v.agent(tenantID, agentID)
	if err != nil {
		return nil, err
	}
	return copyAgent(a), nil
}

func (v *view) LockAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error) {
	return v.GetAgent(ctx, tenantID, agentID)
}

func (v *view) ListPublishedAgents(_ context.Context, tenantID string) ([]*domain.Agent, error) {
	var agents []*domain.Agent
	for _, a := range v.st.agents {
		if a.TenantID == tenantID && a.Enabled && a.IsPublished() {
			agents = append(agents, copyAgent(a))
		}
	}
	sort.Slice(agents, func(i, j int) bool {
		if !agents[i].CreatedAt.Equal(agents[j].CreatedAt) {
			return agents[i].CreatedAt.Before(agents[j].CreatedAt)
		}
		return agents[i].ID < agents[j].ID
	})
	return agents, nil
}

func (v *view) CreateAgent(_ context.Context, agent *domain.Agent) error {
	v.st.lastAgentID++
	now := v.now()

	agent.ID = v.st.lastAgentID
	agent.CurrentVersionNo = domain.DraftVersionNo
	agent.RollbackPending = false
	agent.UpdatedBy = agent.CreatedBy
	agent.CreatedAt = now
	agent.UpdatedAt = now

	v.st.agents[agent.ID] = copyAgent(agent)
	return nil
}

func (v *view) UpdateDraftProfile(_ context.Context, agentID int64, profile domain.AgentProfile, userID string) error {
	a, ok := v.st.agents[agentID]
	if !ok {
		return domain.ErrAgentNotFound
	}
	a.Profile = profile.Clone()
	a.UpdatedBy = userID
	a.UpdatedAt = v.now()
	return nil
}

func (v *view) SetCurrentVersion(_ context.Context, agentID int64, expected, next int, rollbackPending bool, userID string) error {
	a, ok := v.st.agents[agentID]
	if !ok || a.CurrentVersionNo != expected {
		return domain.ErrStaleVersion
	}
	a.CurrentVersionNo = next
	a.RollbackPending = rollbackPending
	a.UpdatedBy = userID
	a.UpdatedAt = v.now()
	return nil
}

func (v *view) GetProfileSnapshot(_ context.Context, agentID int64, versionNo int) (*domain.AgentProfile, error) {
	p, ok := v.st.profiles[snapshotKey{agentID, versionNo}]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	out := p.Clone()
	return &out, nil
}

func (v *view) SaveProfileSnapshot(_ context.Context, agentID int64, versionNo int, profile domain.AgentProfile) error {
	k := snapshotKey{agentID, versionNo}
	if _, ok := v.st.profiles[k]; ok {
		return domain.ErrVersionExists
	}
	v.st.profiles[k] = profile.Clone()
	return nil
}

func (v *view) ListTools(_ context.Context, agentID int64, versionNo int) ([]domain.ToolInstance, error) {
	return domain.CloneTools(v.st.tools[snapshotKey{agentID, versionNo}]), nil
}

func (v *view) ReplaceTools(_ context.Context, agentID int64, versionNo int, tools []domain.ToolInstance) error {
	k := snapshotKey{agentID, versionNo}
	if len(tools) == 0 {
		delete(v.st.tools, k)
		return nil
	}
	v.st.tools[k] = domain.CloneTools(tools)
	return nil
}

func (v *view) ListSubAgentIDs(_ context.Context, agentID int64, versionNo int) ([]int64, error) {
	return slices.Clone(v.st.relations[snapshotKey{agentID, versionNo}]), nil
}

func (v *view) ReplaceSubAgents(_ context.Context, agentID int64, versionNo int, subAgentIDs []int64) error {
	k := snapshotKey{agentID, versionNo}
	if len(subAgentIDs) == 0 {
		delete(v.st.relations, k)
		return nil
	}
	v.st.relations[k] = slices.Clone(subAgentIDs)
	return nil
}

func (v *view) GetVersion(_ context.Context, agentID int64, versionNo int) (*domain.AgentVersion, error) {
	row, ok := v.st.versions[snapshotKey{agentID, versionNo}]
	if !ok || row.deleted {
		return nil, domain.ErrVersionNotFound
	}
	return row.version.Clone(), nil
}

func (v *view) ListVersions(_ context.Context, agentID int64, filter domain.VersionFilter) ([]*domain.AgentVersion, int, error) {
	versions := []*domain.AgentVersion{}
	for k, row := range v.st.versions {
		if k.agentID == agentID && !row.deleted {
			versions = append(versions, row.version.Clone())
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNo > versions[j].VersionNo
	})

	page, total := filter.Apply(versions)
	return page, total, nil
}

func (v *view) NextVersionNo(_ context.Context, agentID int64) (int, error) {
	maxNo := 0
	for k := range v.st.versions {
		if k.agentID == agentID && k.versionNo > maxNo {
			maxNo = k.versionNo
		}
	}
	return maxNo + 1, nil
}

func (v *view) VersionNameExists(_ context.Context, agentID int64, name string) (bool, error) {
	for k, row := range v.st.versions {
		if k.agentID == agentID && !row.deleted && row.version.VersionName == name {
			return true, nil
		}
	}
	return false, nil
}

func (v *view) CreateVersion(_ context.Context, version *domain.AgentVersion) error {
	k := snapshotKey{version.AgentID, version.VersionNo}
	if _, ok := v.st.versions[k]; ok {
		return domain.ErrVersionExists
	}

	v.st.lastVersionID++
	now := v.now()
	version.ID = v.st.lastVersionID
	version.UpdatedBy = version.CreatedBy
	version.CreatedAt = now
	version.UpdatedAt = now

	v.st.versions[k] = &versionRow{version: *version.Clone()}
	return nil
}

func (v *view) UpdateVersionStatus(_ context.Context, agentID int64, versionNo int, from, to domain.VersionStatus, userID string) (*domain.AgentVersion, error) {
	row, ok := v.st.versions[snapshotKey{agentID, versionNo}]
	if !ok || row.deleted || row.version.Status != from {
		return nil, domain.ErrStaleVersion
	}
	row.version.Status = to
	row.version.UpdatedBy = userID
	row.version.UpdatedAt = v.now()
	return row.version.Clone(), nil
}

func (v *view) SoftDeleteVersion(_ context.Context, agentID int64, versionNo int, userID string) error {
	row, ok := v.st.versions[snapshotKey{agentID, versionNo}]
	if !ok || row.deleted {
		return domain.ErrVersionNotFound
	}
	row.deleted = true
	row.version.UpdatedBy = userID
	row.version.UpdatedAt = v.now()
	return nil
}

func (v *view) CreateEvent(_ context.Context, event *domain.VersionEvent) error {
	v.st.lastEventID++
	event.ID = v.st.lastEventID
	event.CreatedAt = v.now()
	v.st.events = append(v.st.events, *event)
	return nil
}

func (v *view) ListEvents(_ context.Context, agentID int64) ([]*domain.VersionEvent, error) {
	events := []*domain.VersionEvent{}
	for _, e := range v.st.events {
		if e.AgentID == agentID {
			e := e
			events = append(events, &e)
		}
	}
	return events, nil
}
