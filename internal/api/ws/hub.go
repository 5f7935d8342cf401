package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/server/middleware"
)

// Subscriber streams a project's board events.
// *redisstore.PubSub satisfies this interface.
type Subscriber interface {
	SubscribeBoard(ctx context.Context, workspaceID, projectID uuid.UUID) (<-chan []byte, func(), error)
}

// ProjectLookup resolves a project inside a workspace.
type ProjectLookup interface {
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Project, error)
}

// BoardLoader loads the current board of a project.
type BoardLoader interface {
	Board(ctx context.Context, workspaceID, projectID uuid.UUID) (board.Board, error)
}

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	subscriber     Subscriber
	projects       ProjectLookup
	boards         BoardLoader
	originPatterns []string
}

// NewHub creates a new WebSocket hub. originPatterns lists the extra origins
// allowed to open cross-origin connections.
func NewHub(subscriber Subscriber, projects ProjectLookup, boards BoardLoader, originPatterns []string) *Hub {
	return &Hub{
		subscriber:     subscriber,
		projects:       projects,
		boards:         boards,
		originPatterns: originPatterns,
	}
}

// ServeBoard streams board events for one project. The first message is a
// board_snapshot carrying every column; after that each event published on
// the project's board channel is forwarded verbatim. It must be mounted
// behind middleware.RequireMember.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		http.Error(w, "missing workspace membership", http.StatusUnauthorized)
		return
	}
	workspaceID := member.WorkspaceID

	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	if _, err = h.projects.GetByID(r.Context(), workspaceID, projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("ws.Hub.ServeBoard: project lookup")
		http.Error(w, "project lookup failed", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// Clients never send; CloseRead cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())
	messages, cleanup, err := h.subscriber.SubscribeBoard(ctx, workspaceID, projectID)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	if err = h.writeSnapshot(ctx, conn, workspaceID, projectID); err != nil {
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("websocket snapshot")
		_ = conn.Close(websocket.StatusInternalError, "snapshot failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

func (h *Hub) writeSnapshot(ctx context.Context, conn *websocket.Conn, workspaceID, projectID uuid.UUID) error {
	b, err := h.boards.Board(ctx, workspaceID, projectID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(board.Event{Type: board.EventBoardSnapshot, ProjectID: projectID, Data: b})
	if err != nil {
		return err
	}

	return conn.Write(ctx, websocket.MessageText, payload)
}
