package reschedule

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
	r.Get("/tasks/{id}/reschedule/suggest", s.suggestReschedule)
}

func (s *Server) suggestReschedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.tasks.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if t.UserID != auth.UserIDFromContext(ctx) {
		cerr.SetNewJSONError(ctx, cerr.NotFound, "task not found", nil)
		return
	}
	cerr.SetJSONResponse(ctx, s.engine.Suggest(ctx, t))
}
