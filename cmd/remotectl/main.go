package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"remotectl/internal/application"
	"remotectl/internal/command"
	"remotectl/internal/config"
	"remotectl/internal/logging"
	"remotectl/internal/workspace"
)

var version = "dev"

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := command.BuildApp(command.Deps{
		LoadConfig: config.LoadConfig,
		RunServe:   runServe,
		RunInit: func(_ context.Context, cfg config.Config) error {
			return application.Init(os.Stdout, workspace.Layout{ConfigPath: cfg.ConfigPath, StaticDir: cfg.StaticDir})
		},
		RunCheck: func(_ context.Context, cfg config.Config) error {
			return application.Check(os.Stdout, cfg.ConfigPath)
		},
	})
	app.Version = version

	if err := app.RunContext(rootCtx, os.Args); err != nil {
		logging.NewLogger(logging.Options{Level: "error", Writer: os.Stderr, Component: "remotectl"}).Error("remotectl failed", "err", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cfg config.Config, companion []string) error {
	logger := newRuntimeLogger(cfg)
	app, err := application.StartApplication(ctx, application.StartOptions{
		ConfigPath: cfg.ConfigPath,
		StaticDir:  cfg.StaticDir,
		Host:       cfg.Host,
		Port:       cfg.Port,
		SessionID:  cfg.SessionID,
		Watch:      cfg.Watch,
		NoQR:       cfg.NoQR,
		Companion:  companion,
		Logger:     logger,
		Out:        os.Stdout,
	})
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func newRuntimeLogger(cfg config.Config) *slog.Logger {
	return logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Writer:    os.Stderr,
		Component: "remotectl",
	})
}
