package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

type CreateProjectInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	Body        struct {
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Project name"`
		ImageURL string `json:"image_url,omitempty" maxLength:"2048" doc:"Project image URL"`
	}
}

type CreateProjectOutput struct {
	Body *domain.Project
}

type ListProjectsInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
}

type ListProjectsOutput struct {
	Body []*domain.Project
}

type GetProjectInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `path:"projectID" doc:"Project ID"`
}

type GetProjectOutput struct {
	Body *domain.Project
}

type UpdateProjectInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `path:"projectID" doc:"Project ID"`
	Body        struct {
		Name     string  `json:"name,omitempty" maxLength:"255" doc:"Project name"`
		ImageURL *string `json:"image_url,omitempty" maxLength:"2048" doc:"Project image URL; empty string clears it"`
	}
}

type UpdateProjectOutput struct {
	Body *domain.Project
}

type DeleteProjectInput struct {
	WorkspaceID uuid.UUID `path:"workspaceID" doc:"Workspace ID"`
	ProjectID   uuid.UUID `path:"projectID" doc:"Project ID"`
}

func RegisterProjectRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-project",
		Method:      http.MethodPost,
		Path:        "/workspaces/{workspaceID}/projects",
		Summary:     "Create a new project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *CreateProjectInput) (*CreateProjectOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		p, err := domain.NewProject(input.WorkspaceID, input.Body.Name, input.Body.ImageURL)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if createErr := store.Projects().Create(ctx, p); createErr != nil {
			return nil, huma.Error500InternalServerError("failed to create project", createErr)
		}

		return &CreateProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/projects",
		Summary:     "List projects in a workspace",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *ListProjectsInput) (*ListProjectsOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		projects, err := store.Projects().List(ctx, input.WorkspaceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list projects", err)
		}

		return &ListProjectsOutput{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspaceID}/projects/{projectID}",
		Summary:     "Get a project by ID",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *GetProjectInput) (*GetProjectOutput, error) {
		if _, err := requireMember(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		p, err := requireProject(ctx, store, input.WorkspaceID, input.ProjectID)
		if err != nil {
			return nil, err
		}

		return &GetProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPatch,
		Path:        "/workspaces/{workspaceID}/projects/{projectID}",
		Summary:     "Update a project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *UpdateProjectInput) (*UpdateProjectOutput, error) {
		if _, err := requireAdmin(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		existing, err := requireProject(ctx, store, input.WorkspaceID, input.ProjectID)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.ImageURL != nil {
			existing.ImageURL = *input.Body.ImageURL
		}

		if updateErr := store.Projects().Update(ctx, existing); updateErr != nil {
			if errors.Is(updateErr, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to update project", updateErr)
		}

		return &UpdateProjectOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-project",
		Method:      http.MethodDelete,
		Path:        "/workspaces/{workspaceID}/projects/{projectID}",
		Summary:     "Delete a project and its tasks",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *DeleteProjectInput) (*struct{}, error) {
		if _, err := requireAdmin(ctx, store, input.WorkspaceID); err != nil {
			return nil, err
		}

		if err := store.Projects().Delete(ctx, input.WorkspaceID, input.ProjectID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete project", err)
		}

		return nil, nil
	})
}
