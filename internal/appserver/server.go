package appserver

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"remotectl/internal/actions"
)

const staticSegment = "static"

type PageSource interface {
	SessionID() string
	Snapshot() (string, []actions.Action)
}

type PageRenderer interface {
	Render(w io.Writer, title string, list []actions.Action) error
}

type AssetServer interface {
	Serve(w http.ResponseWriter, category, asset string)
}

type ActionDispatcher interface {
	Serve(w http.ResponseWriter, id string)
}

type Deps struct {
	State      PageSource
	Renderer   PageRenderer
	Assets     AssetServer
	Dispatcher ActionDispatcher
	Logger     *slog.Logger
}

type Server struct {
	deps   Deps
	router chi.Router
	logger *slog.Logger
}

// NewServer binds the route table once. The session id becomes a literal
// path segment, so it may not contain characters that are part of the route
// syntax.
func NewServer(deps Deps) (*Server, error) {
	if deps.State == nil || deps.Renderer == nil || deps.Assets == nil || deps.Dispatcher == nil {
		return nil, routeError("appserver: missing dependency")
	}
	session := deps.State.SessionID()
	if err := validateSessionID(session); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{deps: deps, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.Get("/"+staticSegment+"/{category}/{asset}", s.handleStatic)
	r.Get("/"+session+"/", s.handlePage)
	r.Get("/"+session+"/control/{actionID}", s.handleControl)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	category, asset := chi.URLParam(r, "category"), chi.URLParam(r, "asset")
	// chi matches against RawPath when the request carries one, and then the
	// params are still escaped.
	if r.URL.RawPath != "" {
		var err1, err2 error
		category, err1 = url.PathUnescape(category)
		asset, err2 = url.PathUnescape(asset)
		if err1 != nil || err2 != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
	}
	s.deps.Assets.Serve(w, category, asset)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	title, list := s.deps.State.Snapshot()
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(&buf, title, list); err != nil {
		s.logger.Error("render control page failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	s.deps.Dispatcher.Serve(w, chi.URLParam(r, "actionID"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}

func validateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return routeError("session id is empty")
	}
	if strings.ContainsAny(id, "/{}*?#% \t\n") {
		return routeError("session id %q contains characters not allowed in a path segment", id)
	}
	switch id {
	case staticSegment, ".", "..":
		return routeError("session id %q is a reserved path segment", id)
	}
	return nil
}

func routeError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
