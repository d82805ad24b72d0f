package suggestion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/task"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	engine *Engine
	tasks  task.Repository
}

func NewServer(engine *Engine, tasks task.Repository) *Server {
	return &Server{engine: engine, tasks: tasks}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/suggestions/pattern", s.patternSuggestion)
	r.Get("/tasks/{id}/chain", s.dependencyChain)
}

func (s *Server) patternSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := task.Category(r.URL.Query().Get("category"))
	if !category.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown category", nil)
		return
	}
	suggestion, err := s.engine.GetPatternSuggestion(ctx, auth.UserIDFromContext(ctx), category)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, suggestion)
}

func (s *Server) dependencyChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parent, err := s.tasks.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if parent.UserID != auth.UserIDFromContext(ctx) {
		cerr.SetNewJSONError(ctx, cerr.NotFound, "task not found", nil)
		return
	}
	chain, err := s.engine.GetDependencyChain(ctx, parent.ID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"chain": chain})
}
