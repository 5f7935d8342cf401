package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BACKLOG"
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// Statuses returns every task status in board column order.
func Statuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusBacklog,
		TaskStatusTodo,
		TaskStatusInProgress,
		TaskStatusInReview,
		TaskStatusDone,
	}
}

// Valid reports whether s is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Position    int        `json:"position"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskPositionUpdate is one persisted change produced by a board move.
type TaskPositionUpdate struct {
	ID       uuid.UUID  `json:"id"`
	Status   TaskStatus `json:"status"`
	Position int        `json:"position"`
}

// TaskFilter narrows a task listing. Zero values mean "any".
type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     TaskStatus
	AssigneeID *uuid.UUID
	DueDate    *time.Time // matches tasks due on the same calendar day (UTC)
	Search     string     // case-insensitive substring of the name
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*Task, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter TaskFilter) ([]*Task, error)
	ListByProject(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*Task, error)
	// MaxPosition returns the highest position in one column, or 0 for an empty column.
	MaxPosition(ctx context.Context, workspaceID, projectID uuid.UUID, status TaskStatus) (int, error)
	Update(ctx context.Context, t *Task) error
	// BulkUpdate applies all updates atomically. A missing task fails the whole batch.
	BulkUpdate(ctx context.Context, workspaceID uuid.UUID, updates []TaskPositionUpdate) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
