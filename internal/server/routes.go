package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/api/ws"
	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/server/middleware"
	"github.com/gosuda/taskboard/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, boards *board.Service) {
	v1.RegisterWorkspaceRoutes(api, store)
	v1.RegisterProjectRoutes(api, store)
	v1.RegisterTaskRoutes(api, store, boards)
	v1.RegisterBoardRoutes(api, store, boards)
}

func registerWSRoutes(r chi.Router, store *postgres.Store, hub *ws.Hub) {
	r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
		r.Use(middleware.RequireMember(store.Members()))
		r.Get("/projects/{projectID}/board", hub.ServeBoard)
	})
}
