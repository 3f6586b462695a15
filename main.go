package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/harshith-118/AI-Interviewer/internal/agent"
	"github.com/harshith-118/AI-Interviewer/internal/api"
	"github.com/harshith-118/AI-Interviewer/internal/config"
	"github.com/harshith-118/AI-Interviewer/internal/events"
	"github.com/harshith-118/AI-Interviewer/internal/gui"
	"github.com/harshith-118/AI-Interviewer/internal/ingestion"
	"github.com/harshith-118/AI-Interviewer/internal/llm"
	"github.com/harshith-118/AI-Interviewer/internal/prompts"
	"github.com/harshith-118/AI-Interviewer/internal/session"
)

func main() {
	desktop := flag.Bool("gui", false, "run the desktop interviewer instead of the web server")
	flag.Parse()

	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interviewer, store, err := buildAgent(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer interviewer.Close()
	defer store.Stop()

	if *desktop {
		gui.NewApp(cfg, interviewer, slog.Default()).Run()
		return
	}

	if err := serve(ctx, cfg, interviewer); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("ai interviewer stopped")
}

// buildAgent wires the service client, prompts, storage, sessions and events
func buildAgent(ctx context.Context, cfg *config.Config) (*agent.InterviewAgent, *session.Store, error) {
	logger := slog.Default()

	client, err := llm.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("generative client ready", "provider", cfg.LLMProvider, "model", cfg.Model())

	promptSet, err := prompts.Load(cfg.PromptsPath)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	files := ingestion.NewFileHandler(cfg.UploadsDir)
	store := session.NewStore(cfg.SessionTTL.Duration, files, logger)
	if err := store.StartSweeper(cfg.SessionSweepInterval.Duration); err != nil {
		client.Close()
		return nil, nil, err
	}

	// NATS is optional; the interview works without an event sink
	var publisher events.Publisher = events.Noop{}
	if cfg.NatsURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			slog.Warn("NATS unavailable, running without events", "url", cfg.NatsURL, "error", err)
		} else {
			publisher = natsPublisher
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	return agent.New(agent.Options{
		Store:          store,
		Files:          files,
		Client:         client,
		Prompts:        promptSet,
		RequestTimeout: cfg.RequestTimeout.Duration,
		Publisher:      publisher,
		Logger:         logger,
	}), store, nil
}

// serve runs the web server until ctx is canceled
func serve(ctx context.Context, cfg *config.Config, a *agent.InterviewAgent) error {
	server, err := api.NewServer(a, slog.Default())
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := server.NewHTTPServer(addr, cfg.RequestTimeout.Duration)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ai interviewer listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
