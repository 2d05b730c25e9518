package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Reader is the read side of the version store.
type Reader interface {
	GetAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error)
	ListPublishedAgents(ctx context.Context, tenantID string) ([]*domain.Agent, error)
	GetProfileSnapshot(ctx context.Context, agentID int64, versionNo int) (*domain.AgentProfile, error)
	ListTools(ctx context.Context, agentID int64, versionNo int) ([]domain.ToolInstance, error)
	ListSubAgentIDs(ctx context.Context, agentID int64, versionNo int) ([]int64, error)
	GetVersion(ctx context.Context, agentID int64, versionNo int) (*domain.AgentVersion, error)
	ListVersions(ctx context.Context, agentID int64, filter domain.VersionFilter) ([]*domain.AgentVersion, int, error)
	ListEvents(ctx context.Context, agentID int64) ([]*domain.VersionEvent, error)
}

// Tx is the unit of work handed to Store.InTx. Writes are only available inside it.
type Tx interface {
	Reader

	// LockAgent reads the agent and holds its row lock until the transaction ends.
	LockAgent(ctx context.Context, tenantID string, agentID int64) (*domain.Agent, error)
	CreateAgent(ctx context.Context, agent *domain.Agent) error
	UpdateDraftProfile(ctx context.Context, agentID int64, profile domain.AgentProfile, userID string) error
	// SetCurrentVersion moves the pointer only if it still equals expected.
	SetCurrentVersion(ctx context.Context, agentID int64, expected, next int, rollbackPending bool, userID string) error

	SaveProfileSnapshot(ctx context.Context, agentID int64, versionNo int, profile domain.AgentProfile) error
	ReplaceTools(ctx context.Context, agentID int64, versionNo int, tools []domain.ToolInstance) error
	ReplaceSubAgents(ctx context.Context, agentID int64, versionNo int, subAgentIDs []int64) error

	NextVersionNo(ctx context.Context, agentID int64) (int, error)
	VersionNameExists(ctx context.Context, agentID int64, name string) (bool, error)
	CreateVersion(ctx context.Context, version *domain.AgentVersion) error
	UpdateVersionStatus(ctx context.Context, agentID int64, versionNo int, from, to domain.VersionStatus, userID string) (*domain.AgentVersion, error)
	SoftDeleteVersion(ctx context.Context, agentID int64, versionNo int, userID string) error

	CreateEvent(ctx context.Context, event *domain.VersionEvent) error
}

// Store is the version store: direct reads plus transactional writes.
type Store interface {
	Reader
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// queries binds every table repository to one Querier.
type queries struct {
	*AgentRepository
	*SnapshotRepository
	*VersionRepository
	*VersionEventRepository
}

func newQueries(q Querier) *queries {
	return &queries{
		AgentRepository:        NewAgentRepository(q),
		SnapshotRepository:     NewSnapshotRepository(q),
		VersionRepository:      NewVersionRepository(q),
		VersionEventRepository: NewVersionEventRepository(q),
	}
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	*queries
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		queries: newQueries(pool),
		pool:    pool,
	}
}

// InTx runs fn in a transaction, committing only when fn returns nil.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(newQueries(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// Ping checks if the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return wrapErr("ping database", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
