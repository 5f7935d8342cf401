package domain

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 6
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

type Workspace struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	InviteCode string    `json:"invite_code"`
	OwnerID    uuid.UUID `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Member struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Role        MemberRole `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsAdmin reports whether the member may manage the workspace.
func (m *Member) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}

// NewWorkspace creates a Workspace owned by ownerID with a fresh invite code.
func NewWorkspace(ownerID uuid.UUID, name, imageURL string) (*Workspace, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("workspace: owner ID is required")
	}
	if name == "" {
		return nil, errors.New("workspace: name is required")
	}
	code, err := GenerateInviteCode()
	if err != nil {
		return nil, err
	}
	return &Workspace{
		ID:         uuid.New(),
		Name:       name,
		ImageURL:   imageURL,
		InviteCode: code,
		OwnerID:    ownerID,
		CreatedAt:  time.Now(),
	}, nil
}

// GenerateInviteCode returns a random alphanumeric code used to join a workspace.
func GenerateInviteCode() (string, error) {
	limit := big.NewInt(int64(len(inviteCodeAlphabet)))
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("workspace: generate invite code: %w", err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Join validates an invite code and returns the new membership for userID.
func (w *Workspace) Join(userID uuid.UUID, inviteCode string) (*Member, error) {
	if inviteCode == "" || subtle.ConstantTimeCompare([]byte(inviteCode), []byte(w.InviteCode)) != 1 {
		return nil, ErrInvalidInviteCode
	}
	return &Member{
		ID:          uuid.New(),
		WorkspaceID: w.ID,
		UserID:      userID,
		Role:        MemberRoleMember,
		CreatedAt:   time.Now(),
	}, nil
}

type WorkspaceRepository interface {
	// Create stores the workspace together with the owner's admin membership.
	Create(ctx context.Context, w *Workspace, owner *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Workspace, error)
	Update(ctx context.Context, w *Workspace) error
	UpdateInviteCode(ctx context.Context, id uuid.UUID, code string) error
}

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	Get(ctx context.Context, workspaceID, userID uuid.UUID) (*Member, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]*Member, error)
}
