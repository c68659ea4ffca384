package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathTraversal = errors.New("asset path escapes static root")
	ErrAssetNotFound = errors.New("asset not found")
)

// contentTypes is the extension whitelist. Nothing outside it is served.
var contentTypes = map[string]string{
	"css": "text/css; charset=utf-8",
}

// Server serves files below a fixed root.
type Server struct {
	root   string
	logger *slog.Logger
}

func NewServer(root string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{root: root, logger: logger}
}

// Open resolves category/asset under the root and returns the file bytes and
// content type.
func (s *Server) Open(category, asset string) ([]byte, string, error) {
	path, err := s.resolve(category, asset)
	if err != nil {
		return nil, "", err
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	contentType, ok := contentTypes[strings.ToLower(ext)]
	if !ok {
		return nil, "", fmt.Errorf("%w: extension %q not served", ErrAssetNotFound, ext)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrAssetNotFound, err)
	}
	return b, contentType, nil
}

// resolve canonicalizes the candidate path, following symlinks, and checks
// that it stays inside the canonical root. A path that does not exist cannot
// be canonicalized and is checked lexically instead.
func (s *Server) resolve(category, asset string) (string, error) {
	root, err := canonical(s.root)
	if err != nil {
		return "", fmt.Errorf("%w: static root: %w", ErrAssetNotFound, err)
	}
	candidate := filepath.Join(root, category, asset)
	resolved, err := canonical(candidate)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", ErrAssetNotFound, err)
		}
		resolved = candidate
	}
	if !within(root, resolved) {
		return "", ErrPathTraversal
	}
	return resolved, nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Serve writes the asset for category/asset to w.
func (s *Server) Serve(w http.ResponseWriter, category, asset string) {
	b, contentType, err := s.Open(category, asset)
	switch {
	case errors.Is(err, ErrPathTraversal):
		s.logger.Info("rejected static asset path", "category", category, "asset", asset)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	case err != nil:
		s.logger.Warn("static asset unavailable", "category", category, "asset", asset, "err", err)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
