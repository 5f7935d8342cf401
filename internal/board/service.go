package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

// Board event types published on a project's board channel.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
	EventTasksMoved  = "tasks_moved"

	// EventBoardSnapshot carries the whole board to a freshly connected client.
	EventBoardSnapshot = "board_snapshot"
)

// TaskStore is the slice of the task repository the service needs.
type TaskStore interface {
	ListByProject(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, error)
	BulkUpdate(ctx context.Context, workspaceID uuid.UUID, updates []domain.TaskPositionUpdate) error
}

// Publisher delivers encoded events to a project's live board clients.
// *redisstore.PubSub satisfies this interface.
type Publisher interface {
	PublishBoard(ctx context.Context, workspaceID, projectID uuid.UUID, payload []byte) error
}

// Event is the message live board clients receive.
type Event struct {
	Type      string     `json:"type"`
	ProjectID uuid.UUID  `json:"project_id"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	Data      any        `json:"data,omitempty"`
}

// MoveResult is the outcome of a persisted move.
type MoveResult struct {
	Board   Board    `json:"board"`
	Updates []Update `json:"updates"`
}

// Service loads a project's board, applies moves, persists the resulting
// position changes and notifies live clients.
type Service struct {
	tasks  TaskStore
	pubsub Publisher
}

// NewService creates a board service. pubsub may be nil to disable events.
func NewService(tasks TaskStore, pubsub Publisher) *Service {
	return &Service{tasks: tasks, pubsub: pubsub}
}

// Board loads the project's tasks and groups them into columns.
func (s *Service) Board(ctx context.Context, workspaceID, projectID uuid.UUID) (Board, error) {
	tasks, err := s.tasks.ListByProject(ctx, workspaceID, projectID)
	if err != nil {
		return nil, fmt.Errorf("board.Service.Board: %w", err)
	}
	return Initialize(deref(tasks)), nil
}

// Move applies m to the project's current board and persists the payload in
// one bulk update. A cancelled drag or a stale source index writes nothing.
func (s *Service) Move(ctx context.Context, workspaceID, projectID uuid.UUID, m Move) (*MoveResult, error) {
	current, err := s.Board(ctx, workspaceID, projectID)
	if err != nil {
		return nil, fmt.Errorf("board.Service.Move: %w", err)
	}

	next, updates := ApplyMove(current, m)
	if len(updates) == 0 {
		return &MoveResult{Board: next, Updates: []Update{}}, nil
	}

	if err := s.tasks.BulkUpdate(ctx, workspaceID, updates); err != nil {
		return nil, fmt.Errorf("board.Service.Move: %w", err)
	}

	s.Publish(ctx, workspaceID, Event{
		Type:      EventTasksMoved,
		ProjectID: projectID,
		TaskID:    &updates[0].ID,
		Data:      updates,
	})

	return &MoveResult{Board: next, Updates: updates}, nil
}

// Publish sends ev to the project's board channel. Failures are logged only;
// clients recover on their next refetch.
func (s *Service) Publish(ctx context.Context, workspaceID uuid.UUID, ev Event) {
	if s.pubsub == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("board.Service.Publish: marshal event")
		return
	}

	if pubErr := s.pubsub.PublishBoard(ctx, workspaceID, ev.ProjectID, payload); pubErr != nil {
		log.Error().Err(pubErr).Str("type", ev.Type).Str("project_id", ev.ProjectID.String()).Msg("board.Service.Publish: failed to publish board event")
	}
}

func deref(tasks []*domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}
