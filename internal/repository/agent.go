package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// profileColumns are the versionable columns shared by agents and agent_profile_snapshots.
var profileColumns = []string{
	"name", "display_name", "description", "author", "model_id", "model_name",
	"max_steps", "provide_run_summary", "duty_prompt", "constraint_prompt",
	"few_shots_prompt", "business_description", "business_logic_model_id",
	"business_logic_model_name", "group_ids",
}

// agentColumns is the shared list of columns for agent queries.
var agentColumns = slices.Concat(
	[]string{"id", "tenant_id"},
	profileColumns,
	[]string{
		"enabled", "current_version_no", "rollback_pending",
		"created_by", "updated_by", "created_at", "updated_at",
	},
)

func profileDest(p *domain.AgentProfile) []any {
	return []any{
		&p.Name, &p.DisplayName, &p.Description, &p.Author, &p.ModelID, &p.ModelName,
		&p.MaxSteps, &p.ProvideRunSummary, &p.DutyPrompt, &p.ConstraintPrompt,
		&p.FewShotsPrompt, &p.BusinessDescription, &p.BusinessLogicModelID,
		&p.BusinessLogicModelName, &p.GroupIDs,
	}
}

func profileValues(p domain.AgentProfile) []any {
	groupIDs := p.GroupIDs
	if groupIDs == nil {
		groupIDs = []int64{}
	}
	return []any{
		p.Name, p.DisplayName, p.Description, p.Author, p.ModelID, p.ModelName,
		p.MaxSteps, p.ProvideRunSummary, p.DutyPrompt, p.ConstraintPrompt,
		p.FewShotsPrompt, p.BusinessDescription, p.BusinessLogicModelID,
		p.BusinessLogicModelName, groupIDs,
	}
}

func profileSetMap(p domain.AgentProfile) map[string]any {
	values := profileValues(p)
	m := make(map[string]any, len(profileColumns))
	for i, col := range profileColumns {
		m[col] = values[i]
	}
	return m
}

// AgentRepository handles database operations for agent drafts.
type AgentRepository struct {
	q Querier
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(q Querier) *AgentRepository {
	return &AgentRepository{q: q}
}

// scanAgent scans a single row into an Agent struct.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	dest := []any{&agent.ID, &agent.TenantID}
	dest = append(dest, profileDest(&agent.Profile)...)
	dest = append(dest,
		&agent.Enabled,
		&agent.CurrentVersionNo,
		&agent.RollbackPending,
		&agent.CreatedBy,
		&agent.UpdatedBy,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, wrapErr("scan agent", err)
	}
	return &agent, nil
}

// scanAgents scans multiple rows into a slice of Agent structs.
func scanAgents(rows pgx.Rows) ([]*domain.Agent, error) {
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate rows", err)
	}
	return agents, nil
}

func (r *AgentRepository) selectAgent(tenantID string, agentID int64) sq.SelectBuilder {
	return psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{
			"id":          agentID,
			"tenant_id":   tenantID,
			"delete_flag": false,
		})
}

// GetAgent retrieves a non-deleted agent draft within a tenant.
func (r *AgentRepository) GetAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error) {
	query, args, err := r.selectAgent(tenantID, agentID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetAgent query: %w", err)
	}

	return scanAgent(r.q.QueryRow(ctx, query, args...))
}

// LockAgent retrieves an agent with FOR UPDATE lock (within transaction).
func (r *AgentRepository) LockAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error) {
	query, args, err := r.selectAgent(tenantID, agentID).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build LockAgent query for agent %d: %w", agentID, err)
	}

	return scanAgent(r.q.QueryRow(ctx, query, args...))
}

// ListPublishedAgents returns enabled agents that have a current version, oldest first.
func (r *AgentRepository) ListPublishedAgents(ctx context.Context, tenantID string) ([]*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{
			"tenant_id":   tenantID,
			"delete_flag": false,
			"enabled":     true,
		}).
		Where(sq.Gt{"current_version_no": 0}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListPublishedAgents query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("query published agents", err)
	}

	return scanAgents(rows)
}

// CreateAgent inserts a new draft. ID, CurrentVersionNo and timestamps are populated on success.
func (r *AgentRepository) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	columns := slices.Concat([]string{"tenant_id"}, profileColumns, []string{"enabled", "created_by", "updated_by"})
	values := slices.Concat([]any{agent.TenantID}, profileValues(agent.Profile), []any{agent.Enabled, agent.CreatedBy, agent.CreatedBy})

	query, args, err := psql.
		Insert("agents").
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id, current_version_no, rollback_pending, updated_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateAgent query: %w", err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(
		&agent.ID,
		&agent.CurrentVersionNo,
		&agent.RollbackPending,
		&agent.UpdatedBy,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create agent", err)
	}
	return nil
}

// UpdateDraftProfile overwrites the draft's versionable columns.
func (r *AgentRepository) UpdateDraftProfile(ctx context.Context, agentID int64, profile domain.AgentProfile, userID string) error {
	query, args, err := psql.
		Update("agents").
		SetMap(profileSetMap(profile)).
		Set("updated_by", userID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": agentID, "delete_flag": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateDraftProfile query for agent %d: %w", agentID, err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update agent draft", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

// SetCurrentVersion moves current_version_no with compare-and-swap on its old value.
// Returns ErrStaleVersion if the pointer no longer equals expected.
func (r *AgentRepository) SetCurrentVersion(
	ctx context.Context,
	agentID int64,
	expected int,
	next int,
	rollbackPending bool,
	userID string,
) error {
	query, args, err := psql.
		Update("agents").
		Set("current_version_no", next).
		Set("rollback_pending", rollbackPending).
		Set("updated_by", userID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":                 agentID,
			"current_version_no": expected,
			"delete_flag":        false,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetCurrentVersion query for agent %d: %w", agentID, err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update current version", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: agent %d expected current version %d", domain.ErrStaleVersion, agentID, expected)
	}

	return nil
}
