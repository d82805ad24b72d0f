package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/joymec19/smart-scheduler/internal"
	activitylogrepo "github.com/joymec19/smart-scheduler/internal/activitylog/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/auth"
	"github.com/joymec19/smart-scheduler/internal/config"
	"github.com/joymec19/smart-scheduler/internal/decomposition"
	decompositionrepo "github.com/joymec19/smart-scheduler/internal/decomposition/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/eventbus"
	"github.com/joymec19/smart-scheduler/internal/insights"
	"github.com/joymec19/smart-scheduler/internal/note"
	noterepo "github.com/joymec19/smart-scheduler/internal/note/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/nudge"
	nudgerepo "github.com/joymec19/smart-scheduler/internal/nudge/repositoryimpl"
	preferencerepo "github.com/joymec19/smart-scheduler/internal/preference/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/reschedule"
	"github.com/joymec19/smart-scheduler/internal/suggestion"
	"github.com/joymec19/smart-scheduler/internal/task"
	taskrepo "github.com/joymec19/smart-scheduler/internal/task/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/telemetry"
	"github.com/joymec19/smart-scheduler/pkg/clog"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "postgres":
		store, err = storage.NewPostgresStorage(context.Background(), env.StorageEnv.PostgresURL)
		if err != nil {
			slog.Error("failed to create postgres storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup event bus
	bus := eventbus.New()

	// Setup repositories
	taskRepo := taskrepo.NewYAMLRepository(store)
	noteRepo := noterepo.NewYAMLRepository(store)
	activityRepo := activitylogrepo.NewYAMLRepository(store)
	preferenceRepo := preferencerepo.NewYAMLRepository(store)
	templateRepo := decompositionrepo.NewYAMLTemplateRepository(store)
	logRepo := decompositionrepo.NewYAMLLogRepository(store)
	nudgeRepo := nudgerepo.NewYAMLRepository(store)

	// Setup engines
	decompositionEngine := decomposition.NewEngine(templateRepo, logRepo, taskRepo, activityRepo, preferenceRepo, bus)
	suggestionEngine := suggestion.NewEngine(taskRepo, activityRepo)
	rescheduleEngine := reschedule.NewEngine(taskRepo)
	nudgeGenerator := nudge.NewGenerator(nudgeRepo, taskRepo)
	insightsEngine := insights.NewEngine(taskRepo, noteRepo)

	// Setup servers
	tokenIssuer := auth.NewTokenIssuer(env.JWTSecret, time.Duration(env.TokenTTLHours)*time.Hour)
	taskServer := task.NewServer(taskRepo, activityRepo, bus)
	noteServer := note.NewServer(noteRepo)
	decompositionServer := decomposition.NewServer(decompositionEngine, taskRepo, preferenceRepo, logRepo)
	suggestionServer := suggestion.NewServer(suggestionEngine, taskRepo)
	rescheduleServer := reschedule.NewServer(rescheduleEngine, taskRepo)
	nudgeServer := nudge.NewServer(nudgeGenerator, nudgeRepo)
	insightsServer := insights.NewServer(insightsEngine)

	srv := server.NewServer(
		env,
		tokenIssuer,
		taskServer,
		noteServer,
		decompositionServer,
		suggestionServer,
		rescheduleServer,
		nudgeServer,
		insightsServer,
	)

	tracker := telemetry.NewTracker(bus)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go tracker.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}
}
