package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

type CreateWorkspaceInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Workspace name"`
		ImageURL string `json:"image_url,omitempty" maxLength:"2048" doc:"Workspace image URL"`
	}
}

type WorkspaceOutput struct {
	Body *domain.Workspace
}

type ListWorkspacesInput struct{}

type ListWorkspacesOutput struct {
	Body []*domain.Workspace
}

type WorkspacePathInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
}

type UpdateWorkspaceInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	Body        struct {
		Name     string  `json:"name,omitempty" maxLength:"255" doc:"Workspace name"`
		ImageURL *string `json:"image_url,omitempty" maxLength:"2048" doc:"Workspace image URL; empty string clears it"`
	}
}

type JoinWorkspaceInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	Body        struct {
		InviteCode string `json:"invite_code" minLength:"1" doc:"Invite code shared by a workspace admin"`
	}
}

type MemberOutput struct {
	Body *domain.Member
}

type ListMembersOutput struct {
	Body []*domain.Member
}

func RegisterWorkspaceRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-workspace",
		Method:      http.MethodPost,
		Path:        "/workspaces",
		Summary:     "Create a workspace owned by the caller",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *CreateWorkspaceInput) (*WorkspaceOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		w, err := domain.NewWorkspace(userID, input.Body.Name, input.Body.ImageURL)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		owner := &domain.Member{
			ID:          uuid.New(),
			WorkspaceID: w.ID,
			UserID:      userID,
			Role:        domain.MemberRoleAdmin,
			CreatedAt:   w.CreatedAt,
		}

		if createErr := store.Workspaces().Create(ctx, w, owner); createErr != nil {
			return nil, huma.Error500InternalServerError("failed to create workspace", createErr)
		}

		return &WorkspaceOutput{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspaces",
		Method:      http.MethodGet,
		Path:        "/workspaces",
		Summary:     "List workspaces the caller belongs to",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, _ *ListWorkspacesInput) (*ListWorkspacesOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		workspaces, err := store.Workspaces().ListForUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list workspaces", err)
		}

		return &ListWorkspacesOutput{Body: workspaces}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-workspace",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}",
		Summary:     "Get a workspace by ID",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *WorkspacePathInput) (*WorkspaceOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		w, err := getWorkspace(ctx, store, input.WorkspaceID)
		if err != nil {
			return nil, err
		}

		return &WorkspaceOutput{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-workspace",
		Method:      http.MethodPatch,
		Path:        "/workspaces/{workspaceID}",
		Summary:     "Rename a workspace or change its image",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *UpdateWorkspaceInput) (*WorkspaceOutput, error) {
		if _, err := requireAdmin(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		w, err := getWorkspace(ctx, store, input.WorkspaceID)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != "" {
			w.Name = input.Body.Name
		}
		if input.Body.ImageURL != nil {
			w.ImageURL = *input.Body.ImageURL
		}

		if updateErr := store.Workspaces().Update(ctx, w); updateErr != nil {
			return nil, huma.Error500InternalServerError("failed to update workspace", updateErr)
		}

		return &WorkspaceOutput{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "join-workspace",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/join",
		Summary:     "Join a workspace with its invite code",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *JoinWorkspaceInput) (*MemberOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		w, err := getWorkspace(ctx, store, input.WorkspaceID)
		if err != nil {
			return nil, err
		}

		_, err = store.Members().Get(ctx, w.ID, userID)
		switch {
		case err == nil:
			return nil, huma.Error409Conflict("already a member of this workspace")
		case !errors.Is(err, domain.ErrNotFound):
			return nil, huma.Error500InternalServerError("failed to check workspace membership", err)
		}

		m, err := w.Join(userID, input.Body.InviteCode)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid invite code")
		}

		if createErr := store.Members().Create(ctx, m); createErr != nil {
			if errors.Is(createErr, domain.ErrConflict) {
				return nil, huma.Error409Conflict("already a member of this workspace")
			}
			return nil, huma.Error500InternalServerError("failed to join workspace", createErr)
		}

		return &MemberOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset-workspace-invite-code",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/reset-invite-code",
		Summary:     "Replace the workspace invite code",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *WorkspacePathInput) (*WorkspaceOutput, error) {
		if _, err := requireAdmin(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		w, err := getWorkspace(ctx, store, input.WorkspaceID)
		if err != nil {
			return nil, err
		}

		code, err := domain.GenerateInviteCode()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to generate invite code", err)
		}

		if updateErr := store.Workspaces().UpdateInviteCode(ctx, w.ID, code); updateErr != nil {
			return nil, huma.Error500InternalServerError("failed to reset invite code", updateErr)
		}
		w.InviteCode = code

		return &WorkspaceOutput{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspace-members",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/members",
		Summary:     "List workspace members",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *WorkspacePathInput) (*ListMembersOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		members, err := store.Members().List(ctx, input.WorkspaceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListMembersOutput{Body: members}, nil
	})
}

func getWorkspace(ctx context.Context, store DataStore, id uuid.UUID) (*domain.Workspace, error) {
	w, err := store.Workspaces().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("workspace not found")
		}
		return nil, huma.Error500InternalServerError("failed to get workspace", err)
	}
	return w, nil
}
