package nudge

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	generator *Generator
	repo      Repository
}

func NewServer(generator *Generator, repo Repository) *Server {
	return &Server{generator: generator, repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/nudges", s.listNudges)
	r.Post("/nudges/generate", s.generateNudges)
	r.Post("/nudges/{id}/act", s.actNudge)
	r.Post("/nudges/{id}/dismiss", s.dismissNudge)
	r.Post("/nudges/{id}/snooze", s.snoozeNudge)
}

func (s *Server) listNudges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nudges, err := s.repo.ListSurfaced(ctx, auth.UserIDFromContext(ctx), time.Now())
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"nudges": nudges})
}

func (s *Server) generateNudges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nudges, err := s.generator.Generate(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"nudges": nudges})
}

func (s *Server) actNudge(w http.ResponseWriter, r *http.Request) {
	s.updateStatus(r, StatusActed)
}

func (s *Server) dismissNudge(w http.ResponseWriter, r *http.Request) {
	s.updateStatus(r, StatusDismissed)
}

func (s *Server) updateStatus(r *http.Request, status Status) {
	ctx := r.Context()
	n, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	n.Status = status
	if err := s.repo.Update(ctx, n); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, n)
}

func (s *Server) snoozeNudge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	n.TriggeredAt = time.Now().Add(time.Hour)
	if err := s.repo.Update(ctx, n); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, n)
}

func (s *Server) owned(r *http.Request) (*Nudge, error) {
	n, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if n.UserID != auth.UserIDFromContext(r.Context()) {
		return nil, cerr.NewError(cerr.NotFound, "nudge not found", nil)
	}
	return n, nil
}
