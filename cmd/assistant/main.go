package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	audioimpl "github.com/foxseedlab/motives/external/audio"
	browserimpl "github.com/foxseedlab/motives/external/browser"
	configloader "github.com/foxseedlab/motives/external/config"
	exporterimpl "github.com/foxseedlab/motives/external/exporter"
	metricsimpl "github.com/foxseedlab/motives/external/metrics"
	repositoryimpl "github.com/foxseedlab/motives/external/repository"
	suggesterimpl "github.com/foxseedlab/motives/external/suggester"
	transcriberimpl "github.com/foxseedlab/motives/external/transcriber"
	webhookimpl "github.com/foxseedlab/motives/external/webhook"
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/session"
	"github.com/samber/do/v2"
)

const prompt = "motives> "

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "transcribe_backend", cfg.TranscribeBackend)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)
	defer func() {
		if report := injector.Shutdown(); report != nil && !report.Succeed {
			slog.Error("dependency shutdown reported errors", "error", report.Error())
		}
	}()

	if cfg.MetricsAddr != "" {
		startMetrics(injector)
	}

	slog.Info("startup: starting interview session")
	runConsole(injector, os.Stdin, os.Stdout)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// initLogger writes to stderr so log lines do not interleave with console
// replies on stdout.
func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	metricsimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	exporterimpl.RegisterDI(injector)
	suggesterimpl.RegisterDI(injector)
	browserimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func startMetrics(injector do.Injector) {
	srv, err := do.Invoke[*metricsimpl.Server](injector)
	if err != nil {
		slog.Error("failed to resolve metrics server", "error", err)
		return
	}
	if err := srv.Start(); err != nil {
		slog.Error("metrics server unavailable; continuing without it", "error", err)
	}
}

func runConsole(injector do.Injector, in io.Reader, out io.Writer) {
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := manager.StartSession(ctx); err != nil {
		slog.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			slog.Error("failed to read console input", "error", err)
		}
	}()

	fmt.Fprintln(out, manager.HandleCommand(ctx, "show").Text)
	fmt.Fprint(out, "\n"+prompt)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			stopSession(manager, session.StopReasonSignal)
			return
		case line, ok := <-lines:
			if !ok {
				slog.Info("console input closed")
				stopSession(manager, session.StopReasonQuit)
				return
			}
			reply := manager.HandleCommand(ctx, line)
			if reply.Text != "" {
				fmt.Fprintln(out, reply.Text)
			}
			if reply.Quit {
				return
			}
			fmt.Fprint(out, prompt)
		}
	}
}

func stopSession(manager *session.Manager, reason string) {
	if err := manager.StopSession(context.Background(), reason); err != nil {
		slog.Warn("failed to stop session", "error", err, "reason", reason)
	}
}
