package server

import "net/http"

// registerRoutes sets up all API endpoints.
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleEditTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/drop", s.handleDrop)
	mux.HandleFunc("POST /api/sections/toggle", s.handleToggleSection)

	return s.corsMiddleware(mux)
}
