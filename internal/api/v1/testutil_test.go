package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the authenticated user into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

// memberOf returns a MemberRepository whose Get admits userID to workspaceID
// with role and reports ErrNotFound for everyone else.
func memberOf(workspaceID, userID uuid.UUID, role domain.MemberRole) *mockMemberRepo {
	return &mockMemberRepo{
		getFunc: func(_ context.Context, wid, uid uuid.UUID) (*domain.Member, error) {
			if wid == workspaceID && uid == userID {
				return &domain.Member{ID: uuid.New(), WorkspaceID: wid, UserID: uid, Role: role}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
}

// projectIn returns a ProjectRepository whose GetByID finds projectID in workspaceID only.
func projectIn(workspaceID, projectID uuid.UUID) *mockProjectRepo {
	return &mockProjectRepo{
		getByIDFunc: func(_ context.Context, wid, id uuid.UUID) (*domain.Project, error) {
			if wid == workspaceID && id == projectID {
				return &domain.Project{ID: id, WorkspaceID: wid, Name: "Website"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	workspaces domain.WorkspaceRepository
	members    domain.MemberRepository
	projects   domain.ProjectRepository
	tasks      domain.TaskRepository
}

func (m *mockDataStore) Workspaces() domain.WorkspaceRepository { return m.workspaces }
func (m *mockDataStore) Members() domain.MemberRepository       { return m.members }
func (m *mockDataStore) Projects() domain.ProjectRepository     { return m.projects }
func (m *mockDataStore) Tasks() domain.TaskRepository           { return m.tasks }

// ---------------------------------------------------------------------------
// Mock WorkspaceRepository
// ---------------------------------------------------------------------------

type mockWorkspaceRepo struct {
	createFunc           func(ctx context.Context, w *domain.Workspace, owner *domain.Member) error
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	listForUserFunc      func(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error)
	updateFunc           func(ctx context.Context, w *domain.Workspace) error
	updateInviteCodeFunc func(ctx context.Context, id uuid.UUID, code string) error
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace, owner *domain.Member) error {
	return m.createFunc(ctx, w, owner)
}

func (m *mockWorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockWorkspaceRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	return m.listForUserFunc(ctx, userID)
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, w *domain.Workspace) error {
	return m.updateFunc(ctx, w)
}

func (m *mockWorkspaceRepo) UpdateInviteCode(ctx context.Context, id uuid.UUID, code string) error {
	return m.updateInviteCodeFunc(ctx, id, code)
}

// ---------------------------------------------------------------------------
// Mock MemberRepository
// ---------------------------------------------------------------------------

type mockMemberRepo struct {
	createFunc func(ctx context.Context, m *domain.Member) error
	getFunc    func(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error)
	listFunc   func(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Member, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, mem *domain.Member) error {
	return m.createFunc(ctx, mem)
}

func (m *mockMemberRepo) Get(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	return m.getFunc(ctx, workspaceID, userID)
}

func (m *mockMemberRepo) List(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Member, error) {
	return m.listFunc(ctx, workspaceID)
}

// ---------------------------------------------------------------------------
// Mock ProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepo struct {
	createFunc  func(ctx context.Context, p *domain.Project) error
	getByIDFunc func(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Project, error)
	updateFunc  func(ctx context.Context, p *domain.Project) error
	listFunc    func(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Project, error)
	deleteFunc  func(ctx context.Context, workspaceID, id uuid.UUID) error
}

func (m *mockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return m.createFunc(ctx, p)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Project, error) {
	return m.getByIDFunc(ctx, workspaceID, id)
}

func (m *mockProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return m.updateFunc(ctx, p)
}

func (m *mockProjectRepo) List(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Project, error) {
	return m.listFunc(ctx, workspaceID)
}

func (m *mockProjectRepo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return m.deleteFunc(ctx, workspaceID, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc        func(ctx context.Context, t *domain.Task) error
	getByIDFunc       func(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Task, error)
	listFunc          func(ctx context.Context, workspaceID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)
	listByProjectFunc func(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, error)
	maxPositionFunc   func(ctx context.Context, workspaceID, projectID uuid.UUID, status domain.TaskStatus) (int, error)
	updateFunc        func(ctx context.Context, t *domain.Task) error
	bulkUpdateFunc    func(ctx context.Context, workspaceID uuid.UUID, updates []domain.TaskPositionUpdate) error
	deleteFunc        func(ctx context.Context, workspaceID, id uuid.UUID) error
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, workspaceID, id)
}

func (m *mockTaskRepo) List(ctx context.Context, workspaceID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error) {
	return m.listFunc(ctx, workspaceID, filter)
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, error) {
	return m.listByProjectFunc(ctx, workspaceID, projectID)
}

func (m *mockTaskRepo) MaxPosition(ctx context.Context, workspaceID, projectID uuid.UUID, status domain.TaskStatus) (int, error) {
	return m.maxPositionFunc(ctx, workspaceID, projectID, status)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) BulkUpdate(ctx context.Context, workspaceID uuid.UUID, updates []domain.TaskPositionUpdate) error {
	return m.bulkUpdateFunc(ctx, workspaceID, updates)
}

func (m *mockTaskRepo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return m.deleteFunc(ctx, workspaceID, id)
}

// ---------------------------------------------------------------------------
// Mock BoardService
// ---------------------------------------------------------------------------

type mockBoardService struct {
	boardFunc func(ctx context.Context, workspaceID, projectID uuid.UUID) (board.Board, error)
	moveFunc  func(ctx context.Context, workspaceID, projectID uuid.UUID, m board.Move) (*board.MoveResult, error)

	mu     sync.Mutex
	events []board.Event
}

func (m *mockBoardService) Board(ctx context.Context, workspaceID, projectID uuid.UUID) (board.Board, error) {
	return m.boardFunc(ctx, workspaceID, projectID)
}

func (m *mockBoardService) Move(ctx context.Context, workspaceID, projectID uuid.UUID, mv board.Move) (*board.MoveResult, error) {
	return m.moveFunc(ctx, workspaceID, projectID, mv)
}

func (m *mockBoardService) Publish(_ context.Context, _ uuid.UUID, ev board.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockBoardService) published() []board.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]board.Event, len(m.events))
	copy(out, m.events)
	return out
}
