package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/config"
	"github.com/joymec19/smart-scheduler/internal/decomposition"
	"github.com/joymec19/smart-scheduler/internal/insights"
	"github.com/joymec19/smart-scheduler/internal/note"
	"github.com/joymec19/smart-scheduler/internal/nudge"
	"github.com/joymec19/smart-scheduler/internal/reschedule"
	"github.com/joymec19/smart-scheduler/internal/suggestion"
	"github.com/joymec19/smart-scheduler/internal/task"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/clog"
)

type Server struct {
	server              *http.Server
	env                 *config.Env
	tokenIssuer         *auth.TokenIssuer
	taskServer          *task.Server
	noteServer          *note.Server
	decompositionServer *decomposition.Server
	suggestionServer    *suggestion.Server
	rescheduleServer    *reschedule.Server
	nudgeServer         *nudge.Server
	insightsServer      *insights.Server
}

func NewServer(
	env *config.Env,
	tokenIssuer *auth.TokenIssuer,
	taskServer *task.Server,
	noteServer *note.Server,
	decompositionServer *decomposition.Server,
	suggestionServer *suggestion.Server,
	rescheduleServer *reschedule.Server,
	nudgeServer *nudge.Server,
	insightsServer *insights.Server,
) *Server {
	return &Server{
		env:                 env,
		tokenIssuer:         tokenIssuer,
		taskServer:          taskServer,
		noteServer:          noteServer,
		decompositionServer: decompositionServer,
		suggestionServer:    suggestionServer,
		rescheduleServer:    rescheduleServer,
		nudgeServer:         nudgeServer,
		insightsServer:      insightsServer,
	}
}

// ListenAndServe starts the HTTP server. The provided context becomes the
// base context of every request, so cancelling it on shutdown also cancels
// in-flight handler work.
func (s *Server) ListenAndServe(ctx context.Context) error {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.NewJSONResponseChiMiddleware(),
			auth.Middleware(s.tokenIssuer),
		)
		s.taskServer.Routes(r)
		s.noteServer.Routes(r)
		s.decompositionServer.Routes(r)
		s.suggestionServer.Routes(r)
		s.rescheduleServer.Routes(r)
		s.nudgeServer.Routes(r)
		s.insightsServer.Routes(r)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthChecker{})
	mux.Handle("/api/", r)

	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: cors.New(cors.Options{
			AllowedOrigins:   strings.Split(s.env.AllowedOrigins, ","),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(mux),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
