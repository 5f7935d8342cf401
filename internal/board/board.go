// Package board groups tasks into kanban columns and recomputes column order
// and positions when a card is dragged from one place to another.
package board

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

const (
	// PositionStep is the gap left between neighbouring cards after a column is renumbered.
	PositionStep = 1000
	// MaxPosition caps renumbered positions; columns longer than
	// MaxPosition/PositionStep share the cap at their tail.
	MaxPosition = 1_000_000
)

// Board maps every status column to its cards in display order.
// Boards built by Initialize always carry all five columns.
type Board map[domain.TaskStatus][]domain.Task

// Location addresses a slot in one column.
type Location struct {
	Status domain.TaskStatus `json:"status" enum:"BACKLOG,TODO,IN_PROGRESS,IN_REVIEW,DONE" doc:"Column status"`
	Index  int               `json:"index" minimum:"0" doc:"Zero-based index within the column"`
}

// Move is a drag-and-drop drop event. A nil Destination is a cancelled drag.
type Move struct {
	Source      Location  `json:"source" doc:"Slot the card was picked up from"`
	Destination *Location `json:"destination,omitempty" doc:"Slot the card was dropped on; omitted for a cancelled drag"`
}

// Update is one persisted change caused by a move.
type Update = domain.TaskPositionUpdate

// Position returns the canonical position for a card at index within its column.
func Position(index int) int {
	return min((index+1)*PositionStep, MaxPosition)
}

// Initialize groups tasks by status and orders each column by position.
// Tasks with equal positions keep their input order. Tasks carrying a status
// outside the fixed column set are skipped.
func Initialize(tasks []domain.Task) Board {
	b := make(Board, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		b[s] = make([]domain.Task, 0)
	}

	for _, t := range tasks {
		col, ok := b[t.Status]
		if !ok {
			log.Debug().Str("task_id", t.ID.String()).Str("status", string(t.Status)).Msg("board.Initialize: skipping task with unknown status")
			continue
		}
		b[t.Status] = append(col, t)
	}

	for _, col := range b {
		slices.SortStableFunc(col, func(a, c domain.Task) int {
			return cmp.Compare(a.Position, c.Position)
		})
	}

	return b
}

// Column returns the cards in one column. The slice is owned by the board.
func (b Board) Column(status domain.TaskStatus) []domain.Task {
	return b[status]
}

// Len returns the number of cards across all columns.
func (b Board) Len() int {
	n := 0
	for _, col := range b {
		n += len(col)
	}
	return n
}

// Clone returns a board whose columns do not share backing arrays with b.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for s, col := range b {
		out[s] = slices.Clone(col)
	}
	return out
}

// ApplyMove moves one card and renumbers the columns it touched.
//
// The returned payload lists the moved card first, then every other card in
// the destination column whose position changed, then (for cross-column
// moves) every card in the source column whose position changed. The input
// board is never modified. A cancelled drag or a source index with no card
// returns b itself and a nil payload.
func ApplyMove(b Board, m Move) (Board, []Update) {
	if m.Destination == nil {
		return b, nil
	}
	src, dst := m.Source, *m.Destination

	srcCol := b[src.Status]
	if src.Index < 0 || src.Index >= len(srcCol) {
		log.Error().
			Str("status", string(src.Status)).
			Int("index", src.Index).
			Int("len", len(srcCol)).
			Msg("board.ApplyMove: no task found at the source index")
		return b, nil
	}
	if _, ok := b[dst.Status]; !ok {
		log.Error().Str("status", string(dst.Status)).Msg("board.ApplyMove: unknown destination column")
		return b, nil
	}

	next := b.Clone()

	moved := next[src.Status][src.Index]
	next[src.Status] = slices.Delete(next[src.Status], src.Index, src.Index+1)

	if dst.Status != src.Status {
		moved.Status = dst.Status
	}

	at := min(max(dst.Index, 0), len(next[dst.Status]))
	moved.Position = Position(at)
	next[dst.Status] = slices.Insert(next[dst.Status], at, moved)

	updates := make([]Update, 0, len(next[dst.Status])+len(next[src.Status]))
	updates = append(updates, Update{ID: moved.ID, Status: dst.Status, Position: moved.Position})
	updates = renumber(next[dst.Status], dst.Status, at, updates)

	if dst.Status != src.Status {
		updates = renumber(next[src.Status], src.Status, -1, updates)
	}

	return next, updates
}

// renumber rewrites positions in col to their canonical values and records a
// change for every card whose stored position differs. The card at skip is
// left alone.
func renumber(col []domain.Task, status domain.TaskStatus, skip int, updates []Update) []Update {
	for i := range col {
		if i == skip {
			continue
		}
		pos := Position(i)
		if col[i].Position == pos {
			continue
		}
		col[i].Position = pos
		updates = append(updates, Update{ID: col[i].ID, Status: status, Position: pos})
	}
	return updates
}
