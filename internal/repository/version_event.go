package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// VersionEventRepository handles database operations for the versioning audit trail.
type VersionEventRepository struct {
	q Querier
}

// NewVersionEventRepository creates a new VersionEventRepository.
func NewVersionEventRepository(q Querier) *VersionEventRepository {
	return &VersionEventRepository{q: q}
}

// CreateEvent creates a new version event.
func (r *VersionEventRepository) CreateEvent(ctx context.Context, event *domain.VersionEvent) error {
	query, args, err := psql.
		Insert("agent_version_events").
		Columns("agent_id", "version_no", "actor_id", "type", "old_status", "new_status", "from_version_no").
		Values(event.AgentID, event.VersionNo, event.ActorID, event.Type, event.OldStatus, event.NewStatus, event.FromVersionNo).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return wrapErr("create version event", err)
	}

	return nil
}

// ListEvents retrieves all events for an agent, oldest first.
func (r *VersionEventRepository) ListEvents(ctx context.Context, agentID int64) ([]*domain.VersionEvent, error) {
	query, args, err := psql.
		Select("id", "agent_id", "version_no", "actor_id", "type", "old_status", "new_status", "from_version_no", "created_at").
		From("agent_version_events").
		Where(sq.Eq{"agent_id": agentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("query version events", err)
	}
	defer rows.Close()

	events := []*domain.VersionEvent{}
	for rows.Next() {
		var event domain.VersionEvent
		err := rows.Scan(
			&event.ID,
			&event.AgentID,
			&event.VersionNo,
			&event.ActorID,
			&event.Type,
			&event.OldStatus,
			&event.NewStatus,
			&event.FromVersionNo,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, wrapErr("scan version event", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate rows", err)
	}

	return events, nil
}
