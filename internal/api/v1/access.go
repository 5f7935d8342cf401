package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/server/middleware"
)

// requireUser returns the authenticated user or a 401.
func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("missing user context")
	}
	return userID, nil
}

// requireMember resolves the caller's membership in workspaceID. Non-members
// get a 404 so workspace existence is not leaked.
func requireMember(ctx context.Context, store DataStore, workspaceID uuid.UUID) (*domain.Member, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	m, err := store.Members().Get(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("workspace not found")
		}
		return nil, huma.Error500InternalServerError("failed to check workspace membership", err)
	}
	return m, nil
}

// requireAdmin is requireMember restricted to workspace admins.
func requireAdmin(ctx context.Context, store DataStore, workspaceID uuid.UUID) (*domain.Member, error) {
	m, err := requireMember(ctx, store, workspaceID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, huma.Error403Forbidden("workspace admin role required")
	}
	return m, nil
}

// requireProject checks that projectID belongs to workspaceID.
func requireProject(ctx context.Context, store DataStore, workspaceID, projectID uuid.UUID) (*domain.Project, error) {
	p, err := store.Projects().GetByID(ctx, workspaceID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("project not found")
		}
		return nil, huma.Error500InternalServerError("failed to get project", err)
	}
	return p, nil
}
