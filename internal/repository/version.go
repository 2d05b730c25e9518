package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// versionColumns is the shared list of columns for version queries.
var versionColumns = []string{
	"id", "agent_id", "version_no", "version_name", "release_note",
	"source_type", "source_version_no", "status",
	"created_by", "updated_by", "created_at", "updated_at",
}

// VersionRepository handles database operations for published versions.
type VersionRepository struct {
	q Querier
}

// NewVersionRepository creates a new VersionRepository.
func NewVersionRepository(q Querier) *VersionRepository {
	return &VersionRepository{q: q}
}

// scanVersion scans a single row into an AgentVersion struct.
func scanVersion(row pgx.Row) (*domain.AgentVersion, error) {
	var v domain.AgentVersion
	err := row.Scan(
		&v.ID,
		&v.AgentID,
		&v.VersionNo,
		&v.VersionName,
		&v.ReleaseNote,
		&v.SourceType,
		&v.SourceVersionNo,
		&v.Status,
		&v.CreatedBy,
		&v.UpdatedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, wrapErr("scan version", err)
	}
	return &v, nil
}

// scanVersions scans multiple rows into a slice of AgentVersion structs.
func scanVersions(rows pgx.Rows) ([]*domain.AgentVersion, error) {
	defer rows.Close()

	versions := []*domain.AgentVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate rows", err)
	}
	return versions, nil
}

// GetVersion retrieves a non-deleted version.
func (r *VersionRepository) GetVersion(ctx context.Context, agentID int64, versionNo int) (*domain.AgentVersion, error) {
	query, args, err := psql.
		Select(versionColumns...).
		From("agent_versions").
		Where(sq.Eq{
			"agent_id":    agentID,
			"version_no":  versionNo,
			"delete_flag": false,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetVersion query: %w", err)
	}

	return scanVersion(r.q.QueryRow(ctx, query, args...))
}

// ListVersions retrieves non-deleted versions, newest first, with the total matching the filter.
func (r *VersionRepository) ListVersions(ctx context.Context, agentID int64, filter domain.VersionFilter) ([]*domain.AgentVersion, int, error) {
	where := sq.Eq{"agent_id": agentID, "delete_flag": false}
	if filter.Status != nil {
		where["status"] = *filter.Status
	}

	qb := psql.
		Select(versionColumns...).
		From("agent_versions").
		Where(where).
		OrderBy("version_no DESC")
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build ListVersions query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("query versions", err)
	}

	versions, err := scanVersions(rows)
	if err != nil {
		return nil, 0, err
	}

	if filter.Limit == 0 && filter.Offset == 0 {
		return versions, len(versions), nil
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("agent_versions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count versions", err)
	}

	return versions, total, nil
}

// NextVersionNo returns max(version_no) + 1, counting soft-deleted versions so numbers are never reused.
func (r *VersionRepository) NextVersionNo(ctx context.Context, agentID int64) (int, error) {
	query, args, err := psql.
		Select("COALESCE(MAX(version_no), 0) + 1").
		From("agent_versions").
		Where(sq.Eq{"agent_id": agentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build NextVersionNo query: %w", err)
	}

	var next int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, wrapErr("query next version number", err)
	}
	return next, nil
}

// VersionNameExists reports whether a non-deleted version of the agent already uses name.
func (r *VersionRepository) VersionNameExists(ctx context.Context, agentID int64, name string) (bool, error) {
	query, args, err := selectExists(psql.
		Select("1").
		From("agent_versions").
		Where(sq.Eq{
			"agent_id":     agentID,
			"version_name": name,
			"delete_flag":  false,
		})).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build VersionNameExists query: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, wrapErr("query version name", err)
	}
	return exists, nil
}

// CreateVersion inserts a version row. ID and timestamps are populated on success.
func (r *VersionRepository) CreateVersion(ctx context.Context, v *domain.AgentVersion) error {
	query, args, err := psql.
		Insert("agent_versions").
		Columns(
			"agent_id", "version_no", "version_name", "release_note",
			"source_type", "source_version_no", "status", "created_by", "updated_by",
		).
		Values(
			v.AgentID,
			v.VersionNo,
			v.VersionName,
			v.ReleaseNote,
			v.SourceType,
			v.SourceVersionNo,
			v.Status,
			v.CreatedBy,
			v.CreatedBy,
		).
		Suffix("RETURNING id, updated_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateVersion query: %w", err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&v.ID, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: agent %d version %d", domain.ErrVersionExists, v.AgentID, v.VersionNo)
		}
		return wrapErr("create version", err)
	}
	return nil
}

// UpdateVersionStatus changes the status with optimistic locking on the old status.
// Returns ErrStaleVersion if the version changed since it was read.
func (r *VersionRepository) UpdateVersionStatus(
	ctx context.Context,
	agentID int64,
	versionNo int,
	from domain.VersionStatus,
	to domain.VersionStatus,
	userID string,
) (*domain.AgentVersion, error) {
	query, args, err := psql.
		Update("agent_versions").
		Set("status", to).
		Set("updated_by", userID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"agent_id":    agentID,
			"version_no":  versionNo,
			"status":      from,
			"delete_flag": false,
		}).
		Suffix("RETURNING " + strings.Join(versionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateVersionStatus query for version %d: %w", versionNo, err)
	}

	v, err := scanVersion(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, domain.ErrVersionNotFound) {
		return nil, fmt.Errorf("%w: version %d is no longer %s", domain.ErrStaleVersion, versionNo, from)
	}
	return v, err
}

// SoftDeleteVersion sets delete_flag on a version.
func (r *VersionRepository) SoftDeleteVersion(ctx context.Context, agentID int64, versionNo int, userID string) error {
	query, args, err := psql.
		Update("agent_versions").
		Set("delete_flag", true).
		Set("updated_by", userID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"agent_id":    agentID,
			"version_no":  versionNo,
			"delete_flag": false,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SoftDeleteVersion query for version %d: %w", versionNo, err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete version", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}
