package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ugaemi/mazechase/internal/audio"
	"github.com/ugaemi/mazechase/internal/config"
	"github.com/ugaemi/mazechase/internal/game"
	"github.com/ugaemi/mazechase/internal/handler"
	"github.com/ugaemi/mazechase/internal/level"
	"github.com/ugaemi/mazechase/internal/run"
	"github.com/ugaemi/mazechase/internal/store"
	"github.com/ugaemi/mazechase/internal/term"
	"github.com/ugaemi/mazechase/internal/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	logOut, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer logOut.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, err := play(ctx, cfg)
	if err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, "mazechase:", err)
		os.Exit(1)
	}
	if rec != nil {
		fmt.Printf("%s: level %d/%d, %d rewards\n", rec.Outcome, rec.LevelReached, rec.Levels, rec.Tally)
	}
}

func play(ctx context.Context, cfg *config.Config) (*store.RunRecord, error) {
	loader, err := level.FromFile(cfg.LevelsFile)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	session := game.NewSession(loader, game.DefaultRules())

	runs := openStore(ctx, cfg)
	defer runs.Close()

	var sink run.AudioSink = audio.Nop{}
	if cfg.AudioEnabled {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			slog.Warn("audio disabled", "error", err)
		} else {
			defer sm.Cleanup()
			sink = sm
		}
	}

	screen, err := term.New()
	if err != nil {
		return nil, err
	}
	defer screen.Close()

	runner := run.NewRunner(session, screen, sink, screen, screen, run.Config{
		TickInterval: cfg.TickInterval,
		MessageHold:  cfg.MessageHold,
	})
	runner.SetStore(runs)

	if cfg.SpectatorAddr != "" {
		feed, shutdown := startSpectator(ctx, cfg, runs)
		defer shutdown()
		runner.SetSpectator(feed)
	}

	rec, err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return rec, nil
	}
	return rec, err
}

// openStore connects the run history. Without a database, or when the
// database is unreachable, history is kept in memory for this process.
func openStore(ctx context.Context, cfg *config.Config) store.RunStore {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryStore()
	}
	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("run history database unavailable, using memory", "error", err)
		return store.NewMemoryStore()
	}
	slog.Info("run history connected")
	return pg
}

func startSpectator(ctx context.Context, cfg *config.Config, runs store.RunStore) (*ws.Feed, func()) {
	hub := ws.NewHub()
	feed := ws.NewFeed(hub, cfg.SpectatorEvery)
	router := handler.NewRouter(feed, runs)

	hub.OnConnect = router.HandleConnect
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.SpectatorAddr,
		Handler: handler.NewMux(hub, router),
	}
	go func() {
		slog.Info("spectator feed starting", "addr", cfg.SpectatorAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("spectator feed failed", "error", err)
		}
	}()

	return feed, func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// setupLogger sends logs to a file; the terminal belongs to the game.
func setupLogger(cfg *config.Config) (io.Closer, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(f, opts)
	default:
		h = slog.NewTextHandler(f, opts)
	}

	slog.SetDefault(slog.New(h))
	return f, nil
}
