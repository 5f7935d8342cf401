package board_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func task(name string, status domain.TaskStatus, position int) domain.Task {
	return domain.Task{
		ID:       uuid.New(),
		Name:     name,
		Status:   status,
		Position: position,
	}
}

func names(col []domain.Task) []string {
	out := make([]string, len(col))
	for i, t := range col {
		out[i] = t.Name
	}
	return out
}

func positions(col []domain.Task) []int {
	out := make([]int, len(col))
	for i, t := range col {
		out[i] = t.Position
	}
	return out
}

func to(status domain.TaskStatus, index int) *board.Location {
	return &board.Location{Status: status, Index: index}
}

// ---------------------------------------------------------------------------
// Position
// ---------------------------------------------------------------------------

func TestPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index int
		want  int
	}{
		{0, 1000},
		{1, 2000},
		{2, 3000},
		{998, 999_000},
		{999, 1_000_000},
		{1000, 1_000_000},
		{50_000, 1_000_000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, board.Position(tt.index), "index %d", tt.index)
	}
}

// ---------------------------------------------------------------------------
// Initialize
// ---------------------------------------------------------------------------

func TestInitialize(t *testing.T) {
	t.Parallel()

	t.Run("empty input has all five columns", func(t *testing.T) {
		t.Parallel()

		b := board.Initialize(nil)

		require.Len(t, b, 5)
		for _, s := range domain.Statuses() {
			col, ok := b[s]
			require.True(t, ok, "column %s missing", s)
			assert.NotNil(t, col)
			assert.Empty(t, col)
		}
	})

	t.Run("groups by status and sorts by position", func(t *testing.T) {
		t.Parallel()

		tasks := []domain.Task{
			task("todo-3", domain.TaskStatusTodo, 3000),
			task("done-1", domain.TaskStatusDone, 1000),
			task("todo-1", domain.TaskStatusTodo, 1000),
			task("review", domain.TaskStatusInReview, 5000),
			task("todo-2", domain.TaskStatusTodo, 2000),
			task("backlog", domain.TaskStatusBacklog, 42),
		}

		b := board.Initialize(tasks)

		assert.Equal(t, []string{"backlog"}, names(b.Column(domain.TaskStatusBacklog)))
		assert.Equal(t, []string{"todo-1", "todo-2", "todo-3"}, names(b.Column(domain.TaskStatusTodo)))
		assert.Empty(t, b.Column(domain.TaskStatusInProgress))
		assert.Equal(t, []string{"review"}, names(b.Column(domain.TaskStatusInReview)))
		assert.Equal(t, []string{"done-1"}, names(b.Column(domain.TaskStatusDone)))
		assert.Equal(t, len(tasks), b.Len())
	})

	t.Run("equal positions keep input order", func(t *testing.T) {
		t.Parallel()

		tasks := []domain.Task{
			task("first", domain.TaskStatusTodo, 1000),
			task("second", domain.TaskStatusTodo, 1000),
			task("zero", domain.TaskStatusTodo, 0),
			task("third", domain.TaskStatusTodo, 1000),
		}

		b := board.Initialize(tasks)

		assert.Equal(t, []string{"zero", "first", "second", "third"}, names(b.Column(domain.TaskStatusTodo)))
	})

	t.Run("unknown status skipped", func(t *testing.T) {
		t.Parallel()

		tasks := []domain.Task{
			task("known", domain.TaskStatusBacklog, 1000),
			task("archived", domain.TaskStatus("ARCHIVED"), 1000),
		}

		b := board.Initialize(tasks)

		assert.Len(t, b, 5)
		assert.Equal(t, 1, b.Len())
		_, ok := b[domain.TaskStatus("ARCHIVED")]
		assert.False(t, ok)
	})

	t.Run("every task lands in exactly one column, sorted", func(t *testing.T) {
		t.Parallel()

		rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data
		statuses := domain.Statuses()
		tasks := make([]domain.Task, 200)
		for i := range tasks {
			tasks[i] = task("t", statuses[rng.IntN(len(statuses))], rng.IntN(10_000))
		}

		b := board.Initialize(tasks)

		seen := make(map[uuid.UUID]int)
		for status, col := range b {
			for i, tk := range col {
				seen[tk.ID]++
				assert.Equal(t, status, tk.Status)
				if i > 0 {
					assert.LessOrEqual(t, col[i-1].Position, tk.Position)
				}
			}
		}
		require.Len(t, seen, len(tasks))
		for _, tk := range tasks {
			assert.Equal(t, 1, seen[tk.ID])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		tasks := []domain.Task{
			task("a", domain.TaskStatusTodo, 2000),
			task("b", domain.TaskStatusTodo, 1000),
			task("c", domain.TaskStatusDone, 1000),
		}

		assert.Equal(t, board.Initialize(tasks), board.Initialize(tasks))
	})
}

// ---------------------------------------------------------------------------
// ApplyMove
// ---------------------------------------------------------------------------

func TestApplyMove_WithinColumn(t *testing.T) {
	t.Parallel()

	a := task("A", domain.TaskStatusTodo, 1000)
	b := task("B", domain.TaskStatusTodo, 2000)
	c := task("C", domain.TaskStatusTodo, 3000)
	before := board.Initialize([]domain.Task{a, b, c})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 2},
		Destination: to(domain.TaskStatusTodo, 0),
	})

	col := after.Column(domain.TaskStatusTodo)
	assert.Equal(t, []string{"C", "A", "B"}, names(col))
	assert.Equal(t, []int{1000, 2000, 3000}, positions(col))

	assert.Equal(t, []board.Update{
		{ID: c.ID, Status: domain.TaskStatusTodo, Position: 1000},
		{ID: a.ID, Status: domain.TaskStatusTodo, Position: 2000},
		{ID: b.ID, Status: domain.TaskStatusTodo, Position: 3000},
	}, updates)
}

func TestApplyMove_WithinColumnDownwards(t *testing.T) {
	t.Parallel()

	a := task("A", domain.TaskStatusTodo, 1000)
	b := task("B", domain.TaskStatusTodo, 2000)
	c := task("C", domain.TaskStatusTodo, 3000)
	before := board.Initialize([]domain.Task{a, b, c})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusTodo, 1),
	})

	assert.Equal(t, []string{"B", "A", "C"}, names(after.Column(domain.TaskStatusTodo)))
	assert.Equal(t, []board.Update{
		{ID: a.ID, Status: domain.TaskStatusTodo, Position: 2000},
		{ID: b.ID, Status: domain.TaskStatusTodo, Position: 1000},
	}, updates, "C keeps 3000 and is omitted")
}

func TestApplyMove_SameSlotOnlyMovedTask(t *testing.T) {
	t.Parallel()

	a := task("A", domain.TaskStatusInProgress, 1000)
	b := task("B", domain.TaskStatusInProgress, 2000)
	before := board.Initialize([]domain.Task{a, b})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusInProgress, Index: 1},
		Destination: to(domain.TaskStatusInProgress, 1),
	})

	assert.Equal(t, before, after)
	assert.Equal(t, []board.Update{
		{ID: b.ID, Status: domain.TaskStatusInProgress, Position: 2000},
	}, updates)
}

func TestApplyMove_CrossColumn(t *testing.T) {
	t.Parallel()

	t1 := task("T1", domain.TaskStatusTodo, 1000)
	t2 := task("T2", domain.TaskStatusTodo, 2000)
	t3 := task("T3", domain.TaskStatusTodo, 3000)
	before := board.Initialize([]domain.Task{t1, t2, t3})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusDone, 0),
	})

	todo := after.Column(domain.TaskStatusTodo)
	assert.Equal(t, []string{"T2", "T3"}, names(todo))
	assert.Equal(t, []int{1000, 2000}, positions(todo))

	done := after.Column(domain.TaskStatusDone)
	require.Len(t, done, 1)
	assert.Equal(t, t1.ID, done[0].ID)
	assert.Equal(t, domain.TaskStatusDone, done[0].Status)
	assert.Equal(t, 1000, done[0].Position)

	assert.Equal(t, []board.Update{
		{ID: t1.ID, Status: domain.TaskStatusDone, Position: 1000},
		{ID: t2.ID, Status: domain.TaskStatusTodo, Position: 1000},
		{ID: t3.ID, Status: domain.TaskStatusTodo, Position: 2000},
	}, updates)
}

func TestApplyMove_PayloadOrder(t *testing.T) {
	t.Parallel()

	d1 := task("D1", domain.TaskStatusInReview, 1000)
	d2 := task("D2", domain.TaskStatusInReview, 2000)
	s1 := task("S1", domain.TaskStatusBacklog, 1000)
	s2 := task("S2", domain.TaskStatusBacklog, 2000)
	s3 := task("S3", domain.TaskStatusBacklog, 3000)
	before := board.Initialize([]domain.Task{d1, d2, s1, s2, s3})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusBacklog, Index: 1},
		Destination: to(domain.TaskStatusInReview, 0),
	})

	assert.Equal(t, []string{"S2", "D1", "D2"}, names(after.Column(domain.TaskStatusInReview)))
	assert.Equal(t, []string{"S1", "S3"}, names(after.Column(domain.TaskStatusBacklog)))

	assert.Equal(t, []board.Update{
		{ID: s2.ID, Status: domain.TaskStatusInReview, Position: 1000},
		{ID: d1.ID, Status: domain.TaskStatusInReview, Position: 2000},
		{ID: d2.ID, Status: domain.TaskStatusInReview, Position: 3000},
		{ID: s3.ID, Status: domain.TaskStatusBacklog, Position: 2000},
	}, updates)
}

func TestApplyMove_CancelledDrag(t *testing.T) {
	t.Parallel()

	before := board.Initialize([]domain.Task{
		task("A", domain.TaskStatusTodo, 1000),
		task("B", domain.TaskStatusDone, 1000),
	})
	snapshot := before.Clone()

	after, updates := board.ApplyMove(before, board.Move{
		Source: board.Location{Status: domain.TaskStatusTodo, Index: 0},
	})

	assert.Equal(t, snapshot, after)
	assert.Empty(t, updates)
}

func TestApplyMove_MissingSourceTask(t *testing.T) {
	t.Parallel()

	before := board.Initialize([]domain.Task{task("A", domain.TaskStatusTodo, 1000)})
	snapshot := before.Clone()

	tests := []struct {
		name string
		src  board.Location
	}{
		{"index past end", board.Location{Status: domain.TaskStatusTodo, Index: 1}},
		{"negative index", board.Location{Status: domain.TaskStatusTodo, Index: -1}},
		{"empty column", board.Location{Status: domain.TaskStatusDone, Index: 0}},
		{"unknown column", board.Location{Status: domain.TaskStatus("ARCHIVED"), Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			after, updates := board.ApplyMove(before, board.Move{
				Source:      tt.src,
				Destination: to(domain.TaskStatusBacklog, 0),
			})

			assert.Equal(t, snapshot, after)
			assert.Nil(t, updates)
		})
	}
}

func TestApplyMove_UnknownDestination(t *testing.T) {
	t.Parallel()

	before := board.Initialize([]domain.Task{task("A", domain.TaskStatusTodo, 1000)})
	snapshot := before.Clone()

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatus("ARCHIVED"), 0),
	})

	assert.Equal(t, snapshot, after)
	assert.Nil(t, updates)
}

func TestApplyMove_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	before := board.Initialize([]domain.Task{
		task("A", domain.TaskStatusTodo, 1000),
		task("B", domain.TaskStatusTodo, 2000),
		task("C", domain.TaskStatusTodo, 3000),
		task("D", domain.TaskStatusDone, 7000),
	})
	snapshot := before.Clone()

	after, _ := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusDone, 0),
	})

	assert.Equal(t, snapshot, before)

	// Writing through the result must not reach the input.
	after.Column(domain.TaskStatusDone)[0].Name = "changed"
	assert.Equal(t, snapshot, before)
}

func TestApplyMove_DestinationIndexPastEndAppends(t *testing.T) {
	t.Parallel()

	a := task("A", domain.TaskStatusTodo, 1000)
	x := task("X", domain.TaskStatusDone, 1000)
	before := board.Initialize([]domain.Task{a, x})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusDone, 10),
	})

	assert.Equal(t, []string{"X", "A"}, names(after.Column(domain.TaskStatusDone)))
	assert.Equal(t, []int{1000, 2000}, positions(after.Column(domain.TaskStatusDone)))
	assert.Equal(t, []board.Update{
		{ID: a.ID, Status: domain.TaskStatusDone, Position: 2000},
	}, updates)
}

func TestApplyMove_NegativeDestinationIndexInsertsAtTop(t *testing.T) {
	t.Parallel()

	a := task("A", domain.TaskStatusTodo, 1000)
	x := task("X", domain.TaskStatusDone, 1000)
	before := board.Initialize([]domain.Task{a, x})

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusDone, -3),
	})

	assert.Equal(t, []string{"A", "X"}, names(after.Column(domain.TaskStatusDone)))
	assert.Equal(t, []int{1000, 2000}, positions(after.Column(domain.TaskStatusDone)))
	assert.Equal(t, []board.Update{
		{ID: a.ID, Status: domain.TaskStatusDone, Position: 1000},
		{ID: x.ID, Status: domain.TaskStatusDone, Position: 2000},
	}, updates)
}

func TestApplyMove_PositionCap(t *testing.T) {
	t.Parallel()

	tasks := make([]domain.Task, 0, 1001)
	for i := range 1000 {
		tasks = append(tasks, task("done", domain.TaskStatusDone, board.Position(i)))
	}
	moved := task("moved", domain.TaskStatusTodo, 1000)
	tasks = append(tasks, moved)
	before := board.Initialize(tasks)

	after, updates := board.ApplyMove(before, board.Move{
		Source:      board.Location{Status: domain.TaskStatusTodo, Index: 0},
		Destination: to(domain.TaskStatusDone, 1000),
	})

	done := after.Column(domain.TaskStatusDone)
	require.Len(t, done, 1001)
	assert.Equal(t, moved.ID, done[1000].ID)
	assert.Equal(t, board.MaxPosition, done[1000].Position)
	assert.Equal(t, board.MaxPosition, done[999].Position, "tail shares the cap")

	require.Len(t, updates, 1)
	assert.Equal(t, board.Update{ID: moved.ID, Status: domain.TaskStatusDone, Position: board.MaxPosition}, updates[0])
}

func TestApplyMove_ResultIsSortedAndPayloadBounded(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec // deterministic test data
	statuses := domain.Statuses()

	tasks := make([]domain.Task, 60)
	for i := range tasks {
		tasks[i] = task("t", statuses[rng.IntN(len(statuses))], rng.IntN(5000))
	}
	b := board.Initialize(tasks)

	for range 200 {
		src := statuses[rng.IntN(len(statuses))]
		if len(b[src]) == 0 {
			continue
		}
		dst := statuses[rng.IntN(len(statuses))]
		srcLen, dstLen := len(b[src]), len(b[dst])

		next, updates := board.ApplyMove(b, board.Move{
			Source:      board.Location{Status: src, Index: rng.IntN(len(b[src]))},
			Destination: to(dst, rng.IntN(dstLen+1)),
		})

		require.NotEmpty(t, updates)
		bound := srcLen + dstLen
		if src == dst {
			bound = srcLen
		}
		assert.LessOrEqual(t, len(updates), bound)
		assert.Equal(t, b.Len(), next.Len())

		for _, s := range []domain.TaskStatus{src, dst} {
			col := next[s]
			for i := range col {
				assert.Equal(t, board.Position(i), col[i].Position)
				assert.Equal(t, s, col[i].Status)
			}
		}

		b = next
	}
}
