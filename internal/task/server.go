package task

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/joymec19/smart-scheduler/internal/activitylog"
	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/eventbus"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
)

type Server struct {
	repo         Repository
	activityRepo activitylog.Repository
	bus          *eventbus.Bus
}

func NewServer(repo Repository, activityRepo activitylog.Repository, bus *eventbus.Bus) *Server {
	return &Server{
		repo:         repo,
		activityRepo: activityRepo,
		bus:          bus,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/tasks", s.createTask)
	r.Get("/tasks", s.listTasks)
	r.Get("/tasks/{id}", s.getTask)
	r.Patch("/tasks/{id}", s.updateTask)
	r.Delete("/tasks/{id}", s.deleteTask)
	r.Post("/tasks/{id}/complete", s.completeTask)
	r.Post("/tasks/{id}/miss", s.missTask)
	r.Post("/tasks/{id}/reschedule", s.rescheduleTask)
}

type createTaskRequest struct {
	Title            string     `json:"title"`
	Category         Category   `json:"category"`
	Priority         Priority   `json:"priority"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.Title == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "title is required", nil)
		return
	}
	if !req.Category.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown category", nil)
		return
	}
	if !req.Priority.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown priority", nil)
		return
	}
	if req.EstimatedMinutes < 0 {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "estimated_minutes must be positive", nil)
		return
	}

	now := time.Now()
	t := &Task{
		ID:               ulid.Make().String(),
		UserID:           auth.UserIDFromContext(ctx),
		Title:            req.Title,
		Category:         req.Category,
		Priority:         req.Priority,
		Status:           StatusPending,
		DueAt:            req.DueAt,
		EstimatedMinutes: req.EstimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.bus.PublishNew(eventbus.EventTaskCreated, t.UserID, t.ID, map[string]any{
		"category": string(t.Category),
		"priority": string(t.Priority),
	})
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := Filter{
		Status:   Status(r.URL.Query().Get("status")),
		Category: Category(r.URL.Query().Get("category")),
		Priority: Priority(r.URL.Query().Get("priority")),
	}
	tasks, err := s.repo.List(ctx, auth.UserIDFromContext(ctx), filter)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"tasks": tasks})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

type updateTaskRequest struct {
	Title            *string    `json:"title,omitempty"`
	Priority         *Priority  `json:"priority,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown priority", nil)
			return
		}
		t.Priority = *req.Priority
	}
	if req.DueAt != nil {
		t.DueAt = req.DueAt
	}
	if req.EstimatedMinutes != nil {
		if *req.EstimatedMinutes <= 0 {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "estimated_minutes must be positive", nil)
			return
		}
		t.EstimatedMinutes = *req.EstimatedMinutes
	}
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"deleted": t.ID})
}

type completeTaskRequest struct {
	ActualMinutes int `json:"actual_minutes"`
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	// The body is optional; completing without tracked minutes is fine.
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}

	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.ActualMinutes = req.ActualMinutes
	t.UpdatedAt = now
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.appendActivity(r, &activitylog.Entry{
		ID:        ulid.Make().String(),
		UserID:    t.UserID,
		TaskID:    t.ID,
		EventType: activitylog.EventTaskCompleted,
		Payload: activitylog.Payload{
			EstimatedMinutes: t.EstimatedMinutes,
			ActualMinutes:    t.ActualMinutes,
		},
		CreatedAt: now,
	})
	s.bus.PublishNew(eventbus.EventTaskCompleted, t.UserID, t.ID, map[string]any{
		"estimated_minutes": t.EstimatedMinutes,
		"actual_minutes":    t.ActualMinutes,
	})
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) missTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	now := time.Now()
	t.Status = StatusMissed
	t.RescheduleCount++
	t.UpdatedAt = now
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.appendActivity(r, &activitylog.Entry{
		ID:        ulid.Make().String(),
		UserID:    t.UserID,
		TaskID:    t.ID,
		EventType: activitylog.EventTaskMissed,
		Payload: activitylog.Payload{
			RescheduleCount: t.RescheduleCount,
		},
		CreatedAt: now,
	})
	s.bus.PublishNew(eventbus.EventTaskMissed, t.UserID, t.ID, nil)
	cerr.SetJSONResponse(ctx, t)
}

type rescheduleTaskRequest struct {
	DueAt     time.Time `json:"due_at"`
	Rationale string    `json:"rationale,omitempty"`
}

func (s *Server) rescheduleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.ownedTask(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	var req rescheduleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.DueAt.IsZero() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "due_at is required", nil)
		return
	}

	now := time.Now()
	from := t.DueAt
	t.DueAt = &req.DueAt
	t.Status = StatusPending
	t.RescheduleCount++
	t.UpdatedAt = now
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	entry := &activitylog.Entry{
		ID:        ulid.Make().String(),
		UserID:    t.UserID,
		TaskID:    t.ID,
		EventType: activitylog.EventRescheduled,
		Payload: activitylog.Payload{
			From:            from,
			To:              &req.DueAt,
			RescheduleCount: t.RescheduleCount,
			Rationale:       req.Rationale,
		},
		CreatedAt: now,
	}
	s.appendActivity(r, entry)
	s.bus.PublishNew(eventbus.EventTaskRescheduled, t.UserID, t.ID, map[string]any{
		"to": req.DueAt,
	})
	cerr.SetJSONResponse(ctx, t)
}

// ownedTask loads the task from the URL and enforces owner scope. A task
// belonging to another user is reported as not found.
func (s *Server) ownedTask(r *http.Request) (*Task, error) {
	t, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if t.UserID != auth.UserIDFromContext(r.Context()) {
		return nil, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return t, nil
}

// appendActivity records the audit entry best-effort. The user-facing state
// change already succeeded; a logging failure must not undo it.
func (s *Server) appendActivity(r *http.Request, entry *activitylog.Entry) {
	if err := s.activityRepo.Append(r.Context(), entry); err != nil {
		slog.WarnContext(r.Context(), "failed to append activity log entry",
			slog.String("task_id", entry.TaskID),
			slog.String("event_type", string(entry.EventType)),
			slog.Any("error", err))
	}
}
