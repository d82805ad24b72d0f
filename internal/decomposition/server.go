package decomposition

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/preference"
	"github.com/joymec19/smart-scheduler/internal/task"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	engine *Engine
	tasks  task.Repository
	prefs  preference.Repository
	logs   LogRepository
}

func NewServer(engine *Engine, tasks task.Repository, prefs preference.Repository, logs LogRepository) *Server {
	return &Server{engine: engine, tasks: tasks, prefs: prefs, logs: logs}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/tasks/{id}/decompose/question", s.clarifyingQuestion)
	r.Post("/tasks/{id}/decompose/preview", s.previewDecomposition)
	r.Post("/tasks/{id}/decompose", s.saveDecomposition)
	r.Post("/decomposition-logs/{id}/edits", s.recordEdits)
}

func (s *Server) clarifyingQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"question": ClarifyingQuestion(t.Category)})
}

type previewRequest struct {
	ClarifyingAnswer string `json:"clarifying_answer,omitempty"`
}

func (s *Server) previewDecomposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}

	pref, err := s.prefs.Get(ctx, t.UserID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	result, err := s.engine.GenerateSubtasks(ctx, t, req.ClarifyingAnswer, pref)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	result.Steps = s.engine.AdjustForUserPatterns(ctx, t.UserID, result.Steps)
	cerr.SetJSONResponse(ctx, result)
}

type saveRequest struct {
	Steps            []Step `json:"steps"`
	TemplateID       string `json:"template_id,omitempty"`
	ClarifyingAnswer string `json:"clarifying_answer,omitempty"`
}

func (s *Server) saveDecomposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if len(req.Steps) == 0 {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "steps are required", nil)
		return
	}

	qa := QA{Question: ClarifyingQuestion(t.Category), Answer: req.ClarifyingAnswer}
	result, err := s.engine.SaveSubtasks(ctx, t.ID, req.Steps, req.TemplateID, qa)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, result)
}

type editsRequest struct {
	Edits []Edit `json:"edits"`
}

func (s *Server) recordEdits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logID := chi.URLParam(r, "id")
	log, err := s.logs.Get(ctx, logID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if log.UserID != auth.UserIDFromContext(ctx) {
		cerr.SetNewJSONError(ctx, cerr.NotFound, "decomposition log not found", nil)
		return
	}

	var req editsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	hasStrongPattern, err := s.engine.LearnFromEdits(ctx, logID, req.Edits)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"has_strong_pattern": hasStrongPattern})
}

func (s *Server) ownedTask(r *http.Request) (*task.Task, error) {
	t, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if t.UserID != auth.UserIDFromContext(r.Context()) {
		return nil, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return t, nil
}
