package insights

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	engine *Engine
}

func NewServer(engine *Engine) *Server {
	return &Server{engine: engine}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/insights", s.generateInsights)
	r.Get("/insights/stats", s.stats)
}

func (s *Server) generateInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	insights, err := s.engine.GenerateInsights(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"insights": insights})
}

// stats exposes the raw aggregates behind the insights for a chosen range.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rng := Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = RangeThisWeek
	}
	if !rng.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown range", nil)
		return
	}
	userID := auth.UserIDFromContext(ctx)

	rate, err := s.engine.CompletionRate(ctx, userID, rng)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	missed, err := s.engine.MissedByCategory(ctx, userID, rng)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	accuracy, err := s.engine.TimeAccuracy(ctx, userID, rng)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	noteCats, err := s.engine.NotesCreatedByCategory(ctx, userID, rng)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{
		"completion_rate":    rate,
		"missed_by_category": missed,
		"time_accuracy":      accuracy,
		"notes_by_category":  noteCats,
	})
}
