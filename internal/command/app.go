package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"remotectl/internal/config"
)

type Deps struct {
	LoadConfig func() config.Config
	// RunServe receives the companion command words, possibly empty.
	RunServe func(ctx context.Context, cfg config.Config, companion []string) error
	RunInit  func(context.Context, config.Config) error
	RunCheck func(context.Context, config.Config) error
}

func BuildApp(deps Deps) *cli.App {
	return &cli.App{
		Name:      "remotectl",
		Usage:     "trigger configured shell commands from a web page on the local network",
		ArgsUsage: "[companion command...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "action file (.toml, .yaml, .json)"},
			&cli.StringFlag{Name: "static", Usage: "static asset directory"},
			&cli.StringFlag{Name: "host", Usage: "listen host"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port, 0 picks a free one"},
			&cli.StringFlag{Name: "session", Usage: "session path segment, random when empty"},
			&cli.BoolFlag{Name: "watch", Usage: "reload actions when the file changes"},
			&cli.BoolFlag{Name: "no-qr", Usage: "do not print a QR code"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Action: func(ctx *cli.Context) error {
			return runServe(ctx, deps)
		},
		Commands: []*cli.Command{
			{
				Name:      "serve",
				Usage:     "serve the control page; a trailing command ends the server when it exits",
				ArgsUsage: "[companion command...]",
				Action: func(ctx *cli.Context) error {
					return runServe(ctx, deps)
				},
			},
			{
				Name:  "init",
				Usage: "write the default config and stylesheet",
				Action: func(ctx *cli.Context) error {
					if deps.RunInit == nil {
						return errors.New("init runner is not configured")
					}
					return deps.RunInit(ctx.Context, loadConfig(ctx, deps))
				},
			},
			{
				Name:  "check",
				Usage: "validate the action file and print the action table",
				Action: func(ctx *cli.Context) error {
					if deps.RunCheck == nil {
						return errors.New("check runner is not configured")
					}
					return deps.RunCheck(ctx.Context, loadConfig(ctx, deps))
				},
			},
		},
	}
}

func runServe(ctx *cli.Context, deps Deps) error {
	if deps.RunServe == nil {
		return errors.New("serve runner is not configured")
	}
	return deps.RunServe(ctx.Context, loadConfig(ctx, deps), ctx.Args().Slice())
}

// loadConfig layers explicitly set flags over the environment config.
func loadConfig(ctx *cli.Context, deps Deps) config.Config {
	var cfg config.Config
	if deps.LoadConfig != nil {
		cfg = deps.LoadConfig()
	} else {
		cfg = config.LoadConfig()
	}
	if ctx.IsSet("config") {
		cfg.ConfigPath = ctx.String("config")
	}
	if ctx.IsSet("static") {
		cfg.StaticDir = ctx.String("static")
	}
	if ctx.IsSet("host") {
		cfg.Host = ctx.String("host")
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}
	if ctx.IsSet("session") {
		cfg.SessionID = ctx.String("session")
	}
	if ctx.IsSet("watch") {
		cfg.Watch = ctx.Bool("watch")
	}
	if ctx.IsSet("no-qr") {
		cfg.NoQR = ctx.Bool("no-qr")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	return cfg
}
