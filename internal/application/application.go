package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"remotectl/internal/actions"
	"remotectl/internal/appserver"
	"remotectl/internal/assets"
	"remotectl/internal/banner"
	"remotectl/internal/dispatch"
	"remotectl/internal/lifecycle"
	"remotectl/internal/netid"
	"remotectl/internal/page"
	"remotectl/internal/workspace"
)

const shutdownTimeout = 3 * time.Second

// BindError reports a listen address that could not be bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

type Application struct {
	state      *actions.State
	fileConfig actions.Config
	listener   net.Listener
	httpServer *http.Server
	logger     *slog.Logger
	opts       StartOptions
}

// StartApplication bootstraps the workspace, loads the action file, binds the
// routes and the listener. It does not serve until Run is called.
func StartApplication(_ context.Context, opts StartOptions) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "0.0.0.0"
	}

	written, err := workspace.Bootstrap(workspace.Layout{ConfigPath: opts.ConfigPath, StaticDir: opts.StaticDir})
	if err != nil {
		return nil, fmt.Errorf("bootstrap workspace: %w", err)
	}
	for _, path := range written {
		logger.Info("wrote default file", "path", path)
	}

	fileCfg, err := actions.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := fileCfg
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if id := strings.TrimSpace(opts.SessionID); id != "" {
		cfg.SessionID = id
	}
	cfg = actions.WithSessionID(cfg)
	state := actions.NewState(cfg)

	server, err := appserver.NewServer(appserver.Deps{
		State:      state,
		Renderer:   page.NewRenderer(),
		Assets:     assets.NewServer(opts.StaticDir, logger.With("module", "assets")),
		Dispatcher: dispatch.NewDispatcher(state, opts.Launcher, logger.With("module", "dispatch")),
		Logger:     logger.With("module", "http"),
	})
	if err != nil {
		return nil, err
	}

	listen := opts.Hooks.Listen
	if listen == nil {
		listen = net.Listen
	}
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(cfg.Port))
	ln, err := listen("tcp", addr)
	if err != nil {
		return nil, &BindError{Addr: addr, Err: err}
	}

	return &Application{
		state:      state,
		fileConfig: fileCfg,
		listener:   ln,
		httpServer: &http.Server{
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		opts:   opts,
	}, nil
}

func (a *Application) SessionID() string {
	if a == nil {
		return ""
	}
	return a.state.SessionID()
}

// Addr is the bound listen address, with the OS-assigned port filled in.
func (a *Application) Addr() net.Addr {
	if a == nil || a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

func (a *Application) port() int {
	if tcp, ok := a.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Run prints the banner and serves until ctx is done, the server fails, or
// the companion command exits.
func (a *Application) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.printBanner()

	mgr := lifecycle.NewManager()
	mgr.AddRun("http-server", func(runCtx context.Context) error {
		go func() {
			<-runCtx.Done()
			_ = a.shutdownHTTP()
		}()
		err := a.httpServer.Serve(a.listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if a.opts.Watch {
		w := actions.NewWatcher(a.opts.ConfigPath, a.state, a.fileConfig, a.logger.With("module", "watcher"))
		mgr.AddRun("config-watcher", w.Run)
	}
	if command := strings.TrimSpace(strings.Join(a.opts.Companion, " ")); command != "" {
		mgr.AddTerminalRun("companion", func(runCtx context.Context) error {
			a.logger.Info("running companion command", "command", command)
			if err := a.runCompanion(runCtx, command); err != nil && runCtx.Err() == nil {
				a.logger.Warn("companion command failed", "command", command, "err", err)
			}
			a.logger.Info("companion command finished, stopping server")
			return nil
		})
	}
	mgr.AddShutdown("http-server-shutdown", func(context.Context) error {
		return a.shutdownHTTP()
	})
	return mgr.StartAndWait(ctx)
}

// Shutdown stops the HTTP server and releases the listener.
func (a *Application) Shutdown(context.Context) error {
	if a == nil {
		return nil
	}
	if err := a.shutdownHTTP(); err != nil {
		return err
	}
	if err := a.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (a *Application) shutdownHTTP() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Application) printBanner() {
	lookup := a.opts.Hooks.LocalIP
	if lookup == nil {
		lookup = netid.LocalIP
	}
	info := banner.Info{
		BindAddr:  a.Addr().String(),
		Port:      a.port(),
		SessionID: a.SessionID(),
	}
	if ip, ok := lookup(); ok {
		info.IP = ip
	}
	banner.Print(a.opts.Out, info, !a.opts.NoQR)
	a.logger.Info("listening", "addr", info.BindAddr, "url", info.URL())
}

func (a *Application) runCompanion(ctx context.Context, command string) error {
	if a.opts.Hooks.RunCompanion != nil {
		return a.opts.Hooks.RunCompanion(ctx, command)
	}
	return runShell(ctx, command, a.opts.Out)
}
