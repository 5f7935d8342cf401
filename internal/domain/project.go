package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates a Project with validated required fields.
func NewProject(workspaceID uuid.UUID, name, imageURL string) (*Project, error) {
	if workspaceID == uuid.Nil {
		return nil, errors.New("project: workspace ID is required")
	}
	if name == "" {
		return nil, errors.New("project: name is required")
	}
	return &Project{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
	}, nil
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, p *Project) error
	List(ctx context.Context, workspaceID uuid.UUID) ([]*Project, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
