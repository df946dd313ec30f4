package server

import (
	"encoding/json"
	"net/http"

	"github.com/taskboard/taskboard/board"
	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/types"
)

type boardResponse struct {
	Todo       []models.Task `json:"todo"`
	InProgress []models.Task `json:"inProgress"`
	Completed  []models.Task `json:"completed"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

type dropRequest struct {
	TaskID string  `json:"taskId"`
	To     *string `json:"to"` // null means the gesture was cancelled
}

type sectionRequest struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case types.IsNotFound(err):
		status = http.StatusNotFound
	case types.IsValidation(err):
		status = http.StatusBadRequest
	case types.IsRemote(err):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleBoard returns the grouped, search-filtered view.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	groups := s.board.View(r.URL.Query().Get("q"))

	resp := boardResponse{
		Todo:       groups.Todo,
		InProgress: groups.InProgress,
		Completed:  groups.Completed,
		Loading:    s.board.Collection.Loading(),
	}
	if err := s.board.Collection.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Collection.Snapshot())
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft models.Task
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	created, err := s.board.Collection.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	updated, err := s.board.Engine.ApplyEdit(r.Context(), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Collection.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDrop applies a drag-and-drop drop event. A null destination means
// the gesture was cancelled; the engine treats it as a no-op.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ev := board.DropEvent{TaskID: req.TaskID}
	if req.To != nil {
		status := models.TaskStatus(*req.To)
		ev.To = &status
	}

	if err := s.board.Engine.ApplyDrop(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.board.Sections.Toggle(status)
	writeJSON(w, http.StatusOK, s.board.Sections.Snapshot())
}
