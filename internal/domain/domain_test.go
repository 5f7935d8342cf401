package domain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. TaskStatus: board order and validity.
// ---------------------------------------------------------------------------

func TestStatuses_BoardOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []domain.TaskStatus{
		domain.TaskStatusBacklog,
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusInReview,
		domain.TaskStatusDone,
	}, domain.Statuses())
}

func TestStatuses_ReturnsFreshSlice(t *testing.T) {
	t.Parallel()

	a := domain.Statuses()
	a[0] = "MUTATED"

	assert.Equal(t, domain.TaskStatusBacklog, domain.Statuses()[0])
}

func TestTaskStatus_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status domain.TaskStatus
		want   bool
	}{
		{domain.TaskStatusBacklog, true},
		{domain.TaskStatusTodo, true},
		{domain.TaskStatusInProgress, true},
		{domain.TaskStatusInReview, true},
		{domain.TaskStatusDone, true},
		{domain.TaskStatus("archived"), false},
		{domain.TaskStatus("done"), false},
		{domain.TaskStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

// TestTaskStatusConstants guards the wire values shared with stored rows.
func TestTaskStatusConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BACKLOG", string(domain.TaskStatusBacklog))
	assert.Equal(t, "TODO", string(domain.TaskStatusTodo))
	assert.Equal(t, "IN_PROGRESS", string(domain.TaskStatusInProgress))
	assert.Equal(t, "IN_REVIEW", string(domain.TaskStatusInReview))
	assert.Equal(t, "DONE", string(domain.TaskStatusDone))
}

// ---------------------------------------------------------------------------
// 2. Workspace construction, invite codes and joining.
// ---------------------------------------------------------------------------

func TestNewWorkspace(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		ws, err := domain.NewWorkspace(owner, "Acme", "https://img.example/acme.png")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, ws.ID)
		assert.Equal(t, owner, ws.OwnerID)
		assert.Equal(t, "Acme", ws.Name)
		assert.Equal(t, "https://img.example/acme.png", ws.ImageURL)
		assert.Len(t, ws.InviteCode, 6)
		assert.False(t, ws.CreatedAt.IsZero())
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewWorkspace(uuid.Nil, "Acme", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owner")
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewWorkspace(owner, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})
}

func TestGenerateInviteCode(t *testing.T) {
	t.Parallel()

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	seen := make(map[string]struct{})
	for range 50 {
		code, err := domain.GenerateInviteCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, code)
		}
		seen[code] = struct{}{}
	}

	// 62^6 possible codes; 50 draws colliding more than once would point at a broken source.
	assert.Greater(t, len(seen), 48)
}

func TestWorkspace_Join(t *testing.T) {
	t.Parallel()

	ws, err := domain.NewWorkspace(uuid.New(), "Acme", "")
	require.NoError(t, err)

	t.Run("matching code", func(t *testing.T) {
		t.Parallel()

		user := uuid.New()
		m, err := ws.Join(user, ws.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, ws.ID, m.WorkspaceID)
		assert.Equal(t, user, m.UserID)
		assert.Equal(t, domain.MemberRoleMember, m.Role)
		assert.False(t, m.IsAdmin())
	})

	rejected := map[string]string{
		"wrong code":     "nope00",
		"empty code":     "",
		"prefix":         ws.InviteCode[:3],
		"extra suffix":   ws.InviteCode + "x",
		"different case": swapCase(ws.InviteCode),
	}
	for name, code := range rejected {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if code == ws.InviteCode {
				t.Skip("generated code has no letters to flip")
			}

			_, err := ws.Join(uuid.New(), code)
			require.ErrorIs(t, err, domain.ErrInvalidInviteCode)
		})
	}

	t.Run("workspace without code rejects empty input", func(t *testing.T) {
		t.Parallel()

		blank := &domain.Workspace{ID: uuid.New()}
		_, err := blank.Join(uuid.New(), "")
		require.ErrorIs(t, err, domain.ErrInvalidInviteCode)
	})
}

// swapCase flips the case of every letter, leaving digits alone.
func swapCase(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			out[i] = c - 'A' + 'a'
		}
	}
	return string(out)
}

func TestMember_IsAdmin(t *testing.T) {
	t.Parallel()

	assert.True(t, (&domain.Member{Role: domain.MemberRoleAdmin}).IsAdmin())
	assert.False(t, (&domain.Member{Role: domain.MemberRoleMember}).IsAdmin())
	assert.False(t, (&domain.Member{}).IsAdmin())
}

// ---------------------------------------------------------------------------
// 3. NewProject.
// ---------------------------------------------------------------------------

func TestNewProject(t *testing.T) {
	t.Parallel()

	wid := uuid.New()

	tests := []struct {
		name        string
		workspaceID uuid.UUID
		projectName string
		wantErr     string
	}{
		{name: "valid", workspaceID: wid, projectName: "Website"},
		{name: "nil workspace", workspaceID: uuid.Nil, projectName: "Website", wantErr: "workspace ID is required"},
		{name: "empty name", workspaceID: wid, projectName: "", wantErr: "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := domain.NewProject(tt.workspaceID, tt.projectName, "")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, p.ID)
			assert.Equal(t, tt.workspaceID, p.WorkspaceID)
			assert.Equal(t, tt.projectName, p.Name)
		})
	}
}

// ---------------------------------------------------------------------------
// 4. Sentinel errors: distinctness and wrapping.
// ---------------------------------------------------------------------------

func TestSentinelErrors_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrInvalidInviteCode,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "sentinel errors must be distinct")
		}
	}
}

func TestSentinelErrors_WrappingPreservesIdentity(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []error{domain.ErrNotFound, domain.ErrConflict, domain.ErrInvalidInviteCode} {
		wrapped := fmt.Errorf("outer: %w", sentinel)
		doubleWrapped := fmt.Errorf("outer2: %w", wrapped)
		require.ErrorIs(t, doubleWrapped, sentinel)
	}
}
