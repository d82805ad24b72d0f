package task_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activitylogrepo "github.com/joymec19/smart-scheduler/internal/activitylog/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/eventbus"
	"github.com/joymec19/smart-scheduler/internal/task"
	taskrepo "github.com/joymec19/smart-scheduler/internal/task/repositoryimpl"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

type serverEnv struct {
	router *chi.Mux
	tasks  *taskrepo.YAMLRepository
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tasks := taskrepo.NewYAMLRepository(store)
	srv := task.NewServer(tasks, activitylogrepo.NewYAMLRepository(store), eventbus.New())

	r := chi.NewRouter()
	r.Use(cerr.NewJSONResponseChiMiddleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.ContextWithUserID(req.Context(), "u1")))
		})
	})
	srv.Routes(r)
	return &serverEnv{router: r, tasks: tasks}
}

func (e *serverEnv) seedTask(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.tasks.Create(context.Background(), &task.Task{
		ID:               id,
		UserID:           "u1",
		Title:            "Write report",
		Category:         task.CategoryWork,
		Priority:         task.PriorityHigh,
		Status:           task.StatusPending,
		EstimatedMinutes: 60,
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
}

func (e *serverEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCompleteTaskWithEmptyBody(t *testing.T) {
	env := newServerEnv(t)
	env.seedTask(t, "t1")

	rec := env.do(http.MethodPost, "/tasks/t1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.tasks.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)
	assert.Equal(t, 0, got.ActualMinutes)
	assert.NotNil(t, got.CompletedAt)
}

func TestCompleteTaskWithActualMinutes(t *testing.T) {
	env := newServerEnv(t)
	env.seedTask(t, "t1")

	rec := env.do(http.MethodPost, "/tasks/t1/complete", `{"actual_minutes": 75}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.tasks.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 75, got.ActualMinutes)
}

func TestCompleteTaskRejectsMalformedBody(t *testing.T) {
	env := newServerEnv(t)
	env.seedTask(t, "t1")

	rec := env.do(http.MethodPost, "/tasks/t1/complete", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteTaskOwnerScope(t *testing.T) {
	env := newServerEnv(t)
	now := time.Now()
	require.NoError(t, env.tasks.Create(context.Background(), &task.Task{
		ID:        "other",
		UserID:    "u2",
		Title:     "Not yours",
		Category:  task.CategoryWork,
		Priority:  task.PriorityLow,
		Status:    task.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	rec := env.do(http.MethodPost, "/tasks/other/complete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(http.MethodPost, "/tasks", `{"title":"","category":"work","priority":"high"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/tasks", `{"title":"x","category":"nope","priority":"high"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/tasks", `{"title":"x","category":"work","priority":"high"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, task.StatusPending, created.Status)
}
