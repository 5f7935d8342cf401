package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Workspaces() domain.WorkspaceRepository
	Members() domain.MemberRepository
	Projects() domain.ProjectRepository
	Tasks() domain.TaskRepository
}

// BoardService abstracts board loading, moves and live events for handler
// testing. *board.Service satisfies this interface.
type BoardService interface {
	Board(ctx context.Context, workspaceID, projectID uuid.UUID) (board.Board, error)
	Move(ctx context.Context, workspaceID, projectID uuid.UUID, m board.Move) (*board.MoveResult, error)
	Publish(ctx context.Context, workspaceID uuid.UUID, ev board.Event)
}
