package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskboard/internal/domain"
)

const taskColumns = `id, workspace_id, project_id, name, description, status, position,
		        assignee_id, due_date, created_at, updated_at`

const listByProjectQuery = `SELECT ` + taskColumns + `
		 FROM tasks WHERE workspace_id = $1 AND project_id = $2
		 ORDER BY status, position, created_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, workspace_id, project_id, name, description, status, position, assignee_id, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.WorkspaceID, t.ProjectID, t.Name, t.Description,
		t.Status, t.Position, t.AssigneeID, t.DueDate,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task

	err := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	).Scan(
		&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Name, &t.Description,
		&t.Status, &t.Position, &t.AssigneeID, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, workspaceID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error) {
	query, args := buildTaskListQuery(workspaceID, filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.List")
}

// ListByProject returns every task of a project. The query has no LIMIT: the
// board is renumbered from this list, and a truncated list would hand out
// positions already held by the tasks left out.
func (r *TaskRepo) ListByProject(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, listByProjectQuery, workspaceID, projectID)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListByProject")
}

func (r *TaskRepo) MaxPosition(ctx context.Context, workspaceID, projectID uuid.UUID, status domain.TaskStatus) (int, error) {
	var pos int

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0)
		 FROM tasks WHERE workspace_id = $1 AND project_id = $2 AND status = $3`,
		workspaceID, projectID, status,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("taskRepo.MaxPosition: %w", err)
	}

	return pos, nil
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET project_id = $1, name = $2, description = $3, status = $4, position = $5,
		        assignee_id = $6, due_date = $7, updated_at = now()
		 WHERE workspace_id = $8 AND id = $9`,
		t.ProjectID, t.Name, t.Description, t.Status, t.Position,
		t.AssigneeID, t.DueDate,
		t.WorkspaceID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// BulkUpdate writes every status/position change in one transaction. The
// statements are pipelined as a single batch; a task that does not exist in
// the workspace rolls the whole batch back.
func (r *TaskRepo) BulkUpdate(ctx context.Context, workspaceID uuid.UUID, updates []domain.TaskPositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("taskRepo.BulkUpdate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(
			`UPDATE tasks SET status = $1, position = $2, updated_at = now()
			 WHERE workspace_id = $3 AND id = $4`,
			u.Status, u.Position, workspaceID, u.ID,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, u := range updates {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			return fmt.Errorf("taskRepo.BulkUpdate: task %s: %w", u.ID, execErr)
		}
		if tag.RowsAffected() == 0 {
			_ = results.Close()
			return fmt.Errorf("taskRepo.BulkUpdate: task %s: %w", u.ID, domain.ErrNotFound)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("taskRepo.BulkUpdate: close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("taskRepo.BulkUpdate: commit: %w", err)
	}

	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// buildTaskListQuery renders the filtered task listing. Every filter value
// travels as a bind parameter.
func buildTaskListQuery(workspaceID uuid.UUID, filter domain.TaskFilter) (string, []any) {
	var sb strings.Builder
	args := []any{workspaceID}

	sb.WriteString(`SELECT ` + taskColumns + `
		 FROM tasks WHERE workspace_id = $1`)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ProjectID != nil {
		sb.WriteString(" AND project_id = " + arg(*filter.ProjectID))
	}
	if filter.Status != "" {
		sb.WriteString(" AND status = " + arg(filter.Status))
	}
	if filter.AssigneeID != nil {
		sb.WriteString(" AND assignee_id = " + arg(*filter.AssigneeID))
	}
	if filter.DueDate != nil {
		day := filter.DueDate.UTC().Truncate(24 * time.Hour)
		sb.WriteString(" AND due_date >= " + arg(day))
		sb.WriteString(" AND due_date < " + arg(day.Add(24*time.Hour)))
	}
	if filter.Search != "" {
		sb.WriteString(" AND name ILIKE " + arg("%"+escapeLike(filter.Search)+"%"))
	}

	sb.WriteString("\n\t\t ORDER BY created_at DESC\n\t\t LIMIT 1000")

	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanTasks(rows pgx.Rows, caller string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Name, &t.Description,
			&t.Status, &t.Position, &t.AssigneeID, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}
