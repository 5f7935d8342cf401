package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
	ContextKeyMember contextKey = "member"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok && v != uuid.Nil
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

func MemberFromContext(ctx context.Context) (*domain.Member, bool) {
	v, ok := ctx.Value(ContextKeyMember).(*domain.Member)
	return v, ok && v != nil
}

func WithMember(ctx context.Context, m *domain.Member) context.Context {
	return context.WithValue(ctx, ContextKeyMember, m)
}
