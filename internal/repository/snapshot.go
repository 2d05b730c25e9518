package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// SnapshotRepository handles the per-version copies of agent configuration.
// Tool and relation rows with version_no 0 belong to the draft.
type SnapshotRepository struct {
	q Querier
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(q Querier) *SnapshotRepository {
	return &SnapshotRepository{q: q}
}

// GetProfileSnapshot retrieves the profile captured for a published version.
func (r *SnapshotRepository) GetProfileSnapshot(ctx context.Context, agentID int64, versionNo int) (*domain.AgentProfile, error) {
	query, args, err := psql.
		Select(profileColumns...).
		From("agent_profile_snapshots").
		Where(sq.Eq{"agent_id": agentID, "version_no": versionNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetProfileSnapshot query: %w", err)
	}

	var profile domain.AgentProfile
	if err := r.q.QueryRow(ctx, query, args...).Scan(profileDest(&profile)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %d version %d has no snapshot", domain.ErrVersionNotFound, agentID, versionNo)
		}
		return nil, wrapErr("scan profile snapshot", err)
	}
	return &profile, nil
}

// SaveProfileSnapshot stores the profile of a newly published version.
func (r *SnapshotRepository) SaveProfileSnapshot(ctx context.Context, agentID int64, versionNo int, profile domain.AgentProfile) error {
	query, args, err := psql.
		Insert("agent_profile_snapshots").
		Columns(slices.Concat([]string{"agent_id", "version_no"}, profileColumns)...).
		Values(slices.Concat([]any{agentID, versionNo}, profileValues(profile))...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SaveProfileSnapshot query: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: agent %d version %d", domain.ErrVersionExists, agentID, versionNo)
		}
		return wrapErr("save profile snapshot", err)
	}
	return nil
}

// ListTools retrieves tool instances of a version in their configured order.
func (r *SnapshotRepository) ListTools(ctx context.Context, agentID int64, versionNo int) ([]domain.ToolInstance, error) {
	query, args, err := psql.
		Select("tool_id", "enabled", "params").
		From("agent_tool_instances").
		Where(sq.Eq{"agent_id": agentID, "version_no": versionNo}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListTools query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("query tool instances", err)
	}
	defer rows.Close()

	var tools []domain.ToolInstance
	for rows.Next() {
		var (
			tool   domain.ToolInstance
			params []byte
		)
		if err := rows.Scan(&tool.ToolID, &tool.Enabled, &params); err != nil {
			return nil, wrapErr("scan tool instance", err)
		}
		if err := json.Unmarshal(params, &tool.Params); err != nil {
			return nil, fmt.Errorf("decode params of tool %d: %w", tool.ToolID, err)
		}
		if len(tool.Params) == 0 {
			tool.Params = nil
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate rows", err)
	}
	return tools, nil
}

// ReplaceTools swaps the tool list of a version for the given one.
func (r *SnapshotRepository) ReplaceTools(ctx context.Context, agentID int64, versionNo int, tools []domain.ToolInstance) error {
	query, args, err := psql.
		Delete("agent_tool_instances").
		Where(sq.Eq{"agent_id": agentID, "version_no": versionNo}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ReplaceTools delete query: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return wrapErr("delete tool instances", err)
	}

	if len(tools) == 0 {
		return nil
	}

	insert := psql.
		Insert("agent_tool_instances").
		Columns("agent_id", "version_no", "position", "tool_id", "enabled", "params")
	for i, tool := range tools {
		params := tool.Params
		if params == nil {
			params = domain.ToolParams{}
		}
		encoded, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode params of tool %d: %w", tool.ToolID, err)
		}
		insert = insert.Values(agentID, versionNo, i, tool.ToolID, tool.Enabled, encoded)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("build ReplaceTools insert query: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return wrapErr("insert tool instances", err)
	}
	return nil
}

// ListSubAgentIDs retrieves the ordered sub-agent ids of a version.
func (r *SnapshotRepository) ListSubAgentIDs(ctx context.Context, agentID int64, versionNo int) ([]int64, error) {
	query, args, err := psql.
		Select("sub_agent_id").
		From("agent_relations").
		Where(sq.Eq{"agent_id": agentID, "version_no": versionNo}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListSubAgentIDs query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("query agent relations", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, wrapErr("scan agent relations", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// ReplaceSubAgents swaps the sub-agent list of a version for the given one.
func (r *SnapshotRepository) ReplaceSubAgents(ctx context.Context, agentID int64, versionNo int, subAgentIDs []int64) error {
	query, args, err := psql.
		Delete("agent_relations").
		Where(sq.Eq{"agent_id": agentID, "version_no": versionNo}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ReplaceSubAgents delete query: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return wrapErr("delete agent relations", err)
	}

	if len(subAgentIDs) == 0 {
		return nil
	}

	insert := psql.
		Insert("agent_relations").
		Columns("agent_id", "version_no", "position", "sub_agent_id")
	for i, id := range subAgentIDs {
		insert = insert.Values(agentID, versionNo, i, id)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("build ReplaceSubAgents insert query: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return wrapErr("insert agent relations", err)
	}
	return nil
}
