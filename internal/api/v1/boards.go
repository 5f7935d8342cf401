package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
)

type GetBoardInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `path:"projectID" doc:"Project ID"`
}

type GetBoardOutput struct {
	Body board.Board
}

type MoveTaskInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `path:"projectID" doc:"Project ID"`
	Body        board.Move
}

type MoveTaskOutput struct {
	Body *board.MoveResult
}

func RegisterBoardRoutes(api huma.API, store DataStore, boards BoardService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/projects/{projectID}/board",
		Summary:     "Get the kanban board for a project",
		Description: "Returns every status column with its tasks ordered by position.",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}
		if _, err := requireProject(ctx, store, input.WorkspaceID, input.ProjectID); err != nil {
			return nil, err
		}

		b, err := boards.Board(ctx, input.WorkspaceID, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load board", err)
		}

		return &GetBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/projects/{projectID}/board/moves",
		Summary:     "Apply a drag-and-drop move",
		Description: "Moves the card at the source slot to the destination slot, renumbers the touched columns and persists every changed position in one transaction. A move without a destination is a cancelled drag and changes nothing.",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *MoveTaskInput) (*MoveTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}
		if _, err := requireProject(ctx, store, input.WorkspaceID, input.ProjectID); err != nil {
			return nil, err
		}

		res, err := boards.Move(ctx, input.WorkspaceID, input.ProjectID, input.Body)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error409Conflict("board changed while moving; reload and retry")
			}
			return nil, huma.Error500InternalServerError("failed to move task", err)
		}

		return &MoveTaskOutput{Body: res}, nil
	})
}
