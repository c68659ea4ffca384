package dispatch

import (
	"errors"
	"log/slog"
	"net/http"

	"remotectl/internal/actions"
)

var ErrUnknownAction = errors.New("unknown action")

// ActionLookup is the read side of actions.State.
type ActionLookup interface {
	Lookup(id string) (actions.Action, bool)
}

// Dispatcher turns an action id into exactly one launch attempt. It does not
// track what it started.
type Dispatcher struct {
	actions  ActionLookup
	launcher Launcher
	logger   *slog.Logger
}

func NewDispatcher(lookup ActionLookup, launcher Launcher, logger *slog.Logger) *Dispatcher {
	if launcher == nil {
		launcher = ShellLauncher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{actions: lookup, launcher: launcher, logger: logger}
}

// Trigger launches the action with the given id. The launch outcome is
// logged and not returned; only an unknown id is an error.
func (d *Dispatcher) Trigger(id string) (actions.Action, error) {
	action, ok := d.actions.Lookup(id)
	if !ok {
		return actions.Action{}, ErrUnknownAction
	}
	d.logger.Info("action fired", "action_id", action.ID, "display_name", action.DisplayName)
	if err := d.launcher.Launch(action.Cmd); err != nil {
		d.logger.Warn("action launch failed", "action_id", action.ID, "display_name", action.DisplayName, "err", err)
	}
	return action, nil
}

// Serve answers 202 for a known id and 404 otherwise.
func (d *Dispatcher) Serve(w http.ResponseWriter, id string) {
	if _, err := d.Trigger(id); err != nil {
		d.logger.Debug("unknown action requested", "action_id", id)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
