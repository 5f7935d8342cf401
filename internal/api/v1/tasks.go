package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
)

type CreateTaskInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	Body        struct {
		ProjectID   uuid.UUID         `json:"project_id" doc:"Project ID"`
		Name        string            `json:"name" minLength:"1" maxLength:"500" doc:"Task name"`
		Description string            `json:"description,omitempty" doc:"Task description"`
		Status      domain.TaskStatus `json:"status" enum:"BACKLOG,TODO,IN_PROGRESS,IN_REVIEW,DONE" doc:"Board column"`
		AssigneeID  *uuid.UUID        `json:"assignee_id,omitempty" doc:"Assigned member's user ID"`
		DueDate     *time.Time        `json:"due_date,omitempty" doc:"Due date"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `query:"project_id" doc:"Filter by project"`
	Status      string    `query:"status" enum:"BACKLOG,TODO,IN_PROGRESS,IN_REVIEW,DONE" doc:"Filter by status"`
	AssigneeID  uuid.UUID `query:"assignee_id" doc:"Filter by assignee"`
	DueDate     string    `query:"due_date" format:"date" doc:"Filter by due date (YYYY-MM-DD)"`
	Search      string    `query:"search" maxLength:"200" doc:"Case-insensitive name search"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	TaskID      uuid.UUID `path:"taskID" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	TaskID      uuid.UUID `path:"taskID" doc:"Task ID"`
	Body        struct {
		Name        string            `json:"name,omitempty" maxLength:"500" doc:"Task name"`
		Description *string           `json:"description,omitempty" doc:"Task description"`
		Status      domain.TaskStatus `json:"status,omitempty" enum:"BACKLOG,TODO,IN_PROGRESS,IN_REVIEW,DONE" doc:"Board column; changing it appends the task to the new column"`
		AssigneeID  *uuid.UUID        `json:"assignee_id,omitempty" doc:"Assigned member's user ID"`
		DueDate     *time.Time        `json:"due_date,omitempty" doc:"Due date"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	TaskID      uuid.UUID `path:"taskID" doc:"Task ID"`
}

type BulkUpdateTasksInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	Body        struct {
		Tasks []BulkTaskUpdate `json:"tasks" minItems:"1" maxItems:"5000" doc:"Status and position changes"`
	}
}

type BulkTaskUpdate struct {
	ID       uuid.UUID         `json:"id" doc:"Task ID"`
	Status   domain.TaskStatus `json:"status" enum:"BACKLOG,TODO,IN_PROGRESS,IN_REVIEW,DONE" doc:"Board column"`
	Position int               `json:"position" minimum:"1000" maximum:"1000000" doc:"Position within the column"`
}

type BulkUpdateTasksOutput struct {
	Body struct {
		Updated int `json:"updated" doc:"Number of tasks written"`
	}
}

func RegisterTaskRoutes(api huma.API, store DataStore, boards BoardService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/tasks",
		Summary:     "Create a task at the bottom of its column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		if _, err := requireProject(ctx, store, input.WorkspaceID, input.Body.ProjectID); err != nil {
			return nil, err
		}

		if err := requireAssignee(ctx, store, input.WorkspaceID, input.Body.AssigneeID); err != nil {
			return nil, err
		}

		pos, err := nextPosition(ctx, store, input.WorkspaceID, input.Body.ProjectID, input.Body.Status)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		t := &domain.Task{
			ID:          uuid.New(),
			WorkspaceID: input.WorkspaceID,
			ProjectID:   input.Body.ProjectID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Status:      input.Body.Status,
			Position:    pos,
			AssigneeID:  input.Body.AssigneeID,
			DueDate:     input.Body.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if createErr := store.Tasks().Create(ctx, t); createErr != nil {
			return nil, huma.Error500InternalServerError("failed to create task", createErr)
		}

		boards.Publish(ctx, t.WorkspaceID, board.Event{Type: board.EventTaskCreated, ProjectID: t.ProjectID, TaskID: &t.ID, Data: t})

		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/tasks",
		Summary:     "List and filter tasks in a workspace",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		filter := domain.TaskFilter{
			Status: domain.TaskStatus(input.Status),
			Search: strings.TrimSpace(input.Search),
		}
		if input.ProjectID != uuid.Nil {
			filter.ProjectID = &input.ProjectID
		}
		if input.AssigneeID != uuid.Nil {
			filter.AssigneeID = &input.AssigneeID
		}
		if input.DueDate != "" {
			due, err := time.Parse(time.DateOnly, input.DueDate)
			if err != nil {
				return nil, huma.Error400BadRequest("due_date must be formatted as YYYY-MM-DD")
			}
			filter.DueDate = &due
		}

		tasks, err := store.Tasks().List(ctx, input.WorkspaceID, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/tasks/{taskID}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		t, err := getTask(ctx, store, input.WorkspaceID, input.TaskID)
		if err != nil {
			return nil, err
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/workspaces/{workspaceID}/tasks/{taskID}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		existing, err := getTask(ctx, store, input.WorkspaceID, input.TaskID)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != nil {
			existing.Description = *input.Body.Description
		}
		if input.Body.AssigneeID != nil {
			if assignErr := requireAssignee(ctx, store, input.WorkspaceID, input.Body.AssigneeID); assignErr != nil {
				return nil, assignErr
			}
			existing.AssigneeID = input.Body.AssigneeID
		}
		if input.Body.DueDate != nil {
			existing.DueDate = input.Body.DueDate
		}
		if input.Body.Status != "" && input.Body.Status != existing.Status {
			pos, posErr := nextPosition(ctx, store, input.WorkspaceID, existing.ProjectID, input.Body.Status)
			if posErr != nil {
				return nil, posErr
			}
			existing.Status = input.Body.Status
			existing.Position = pos
		}
		existing.UpdatedAt = time.Now()

		if updateErr := store.Tasks().Update(ctx, existing); updateErr != nil {
			if errors.Is(updateErr, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to update task", updateErr)
		}

		boards.Publish(ctx, existing.WorkspaceID, board.Event{Type: board.EventTaskUpdated, ProjectID: existing.ProjectID, TaskID: &existing.ID, Data: existing})

		return &UpdateTaskOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/workspaces/{workspaceID}/tasks/{taskID}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		existing, err := getTask(ctx, store, input.WorkspaceID, input.TaskID)
		if err != nil {
			return nil, err
		}

		if delErr := store.Tasks().Delete(ctx, input.WorkspaceID, input.TaskID); delErr != nil {
			if errors.Is(delErr, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete task", delErr)
		}

		boards.Publish(ctx, input.WorkspaceID, board.Event{Type: board.EventTaskDeleted, ProjectID: existing.ProjectID, TaskID: &existing.ID})

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "bulk-update-tasks",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/tasks/bulk-update",
		Summary:     "Persist status and position changes for many tasks at once",
		Description: "Applies every change in one transaction. A task that does not exist in the workspace fails the whole batch.",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *BulkUpdateTasksInput) (*BulkUpdateTasksOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		updates := make([]domain.TaskPositionUpdate, 0, len(input.Body.Tasks))
		for _, u := range input.Body.Tasks {
			updates = append(updates, domain.TaskPositionUpdate{ID: u.ID, Status: u.Status, Position: u.Position})
		}

		if err := store.Tasks().BulkUpdate(ctx, input.WorkspaceID, updates); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("one or more tasks not found")
			}
			return nil, huma.Error500InternalServerError("failed to update tasks", err)
		}

		out := &BulkUpdateTasksOutput{}
		out.Body.Updated = len(updates)
		return out, nil
	})
}

func getTask(ctx context.Context, store DataStore, workspaceID, taskID uuid.UUID) (*domain.Task, error) {
	t, err := store.Tasks().GetByID(ctx, workspaceID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("task not found")
		}
		return nil, huma.Error500InternalServerError("failed to get task", err)
	}
	return t, nil
}

// requireAssignee checks that a non-nil assignee is a member of the workspace.
func requireAssignee(ctx context.Context, store DataStore, workspaceID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := store.Members().Get(ctx, workspaceID, *assigneeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return huma.Error400BadRequest("assignee is not a member of this workspace")
		}
		return huma.Error500InternalServerError("failed to check assignee", err)
	}
	return nil
}

// nextPosition places a task after the last card of its column.
func nextPosition(ctx context.Context, store DataStore, workspaceID, projectID uuid.UUID, status domain.TaskStatus) (int, error) {
	highest, err := store.Tasks().MaxPosition(ctx, workspaceID, projectID, status)
	if err != nil {
		return 0, huma.Error500InternalServerError("failed to compute task position", err)
	}
	return min(highest+board.PositionStep, board.MaxPosition), nil
}
