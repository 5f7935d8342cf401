package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskboard/internal/domain"
)

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const uniqueViolation = "23505"

type Store struct {
	pool       *pgxpool.Pool
	workspaces *WorkspaceRepo
	members    *MemberRepo
	projects   *ProjectRepo
	tasks      domain.TaskRepository
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		workspaces: NewWorkspaceRepo(pool),
		members:    NewMemberRepo(pool),
		projects:   NewProjectRepo(pool),
		tasks:      NewTaskRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Workspaces() domain.WorkspaceRepository { return s.workspaces }
func (s *Store) Members() domain.MemberRepository       { return s.members }
func (s *Store) Projects() domain.ProjectRepository     { return s.projects }
func (s *Store) Tasks() domain.TaskRepository           { return s.tasks }

// WrapTasks replaces the task repository with wrap applied to the current one.
// It is meant for decorators such as a read-through cache and must be called
// before the store is shared.
func (s *Store) WrapTasks(wrap func(domain.TaskRepository) domain.TaskRepository) {
	s.tasks = wrap(s.tasks)
}

// isUniqueViolation reports whether err is a duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
