package application

import (
	"context"
	"io"
	"log/slog"
	"net"

	"remotectl/internal/dispatch"
)

// StartOptions defines startup options for the control server.
type StartOptions struct {
	ConfigPath string
	StaticDir  string
	Host       string
	// Port and SessionID override the action file when set.
	Port      int
	SessionID string
	Watch     bool
	NoQR      bool
	// Companion is the optional command the server's lifetime is tied to.
	Companion []string

	Logger   *slog.Logger
	Out      io.Writer
	Launcher dispatch.Launcher
	Hooks    Hooks
}

// Hooks replace the pieces of startup that touch the host network or run
// processes.
type Hooks struct {
	Listen       func(network, addr string) (net.Listener, error)
	LocalIP      func() (net.IP, bool)
	RunCompanion func(ctx context.Context, command string) error
}
