package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

// MemberLookup resolves a user's membership in a workspace.
// domain.MemberRepository satisfies this interface.
type MemberLookup interface {
	Get(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error)
}

// RequireMember returns middleware that resolves the {workspaceID} route
// parameter and admits only members of that workspace. It must be chained
// after Auth and mounted inside a chi route that declares {workspaceID}.
//
// Returns 401 when no user is in context, 400 for a malformed workspace ID and
// 404 when the user is not a member, so workspace existence is not leaked.
func RequireMember(members MemberLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			workspaceID, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
			if err != nil {
				http.Error(w, `{"title":"Bad Request","status":400,"detail":"invalid workspace id"}`, http.StatusBadRequest)
				return
			}

			m, err := members.Get(r.Context(), workspaceID, userID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					http.Error(w, `{"title":"Not Found","status":404,"detail":"workspace not found"}`, http.StatusNotFound)
					return
				}
				log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("middleware.RequireMember: member lookup")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"membership lookup failed"}`, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMember(r.Context(), m)))
		})
	}
}
