package note

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/task"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/notes", s.createNote)
	r.Get("/notes", s.listNotes)
	r.Delete("/notes/{id}", s.deleteNote)
}

type createNoteRequest struct {
	Content  string        `json:"content"`
	Category task.Category `json:"category"`
	Tags     []string      `json:"tags,omitempty"`
	TaskID   string        `json:"task_id,omitempty"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.Content == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "content is required", nil)
		return
	}
	if !req.Category.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown category", nil)
		return
	}

	n := &Note{
		ID:        ulid.Make().String(),
		UserID:    auth.UserIDFromContext(ctx),
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		TaskID:    req.TaskID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, n)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := Filter{
		Category: task.Category(r.URL.Query().Get("category")),
		Tag:      r.URL.Query().Get("tag"),
	}
	notes, err := s.repo.List(ctx, auth.UserIDFromContext(ctx), filter)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"notes": notes})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if n.UserID != auth.UserIDFromContext(ctx) {
		cerr.SetNewJSONError(ctx, cerr.NotFound, "note not found", nil)
		return
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"deleted": id})
}
