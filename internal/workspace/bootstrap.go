package workspace

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed defaults/config.toml defaults/main.css
var defaultFiles embed.FS

// Layout names the files a fresh install needs.
type Layout struct {
	ConfigPath string
	StaticDir  string
}

// StylesheetPath is where the page expects its stylesheet.
func (l Layout) StylesheetPath() string {
	return filepath.Join(l.StaticDir, "css", "main.css")
}

// Bootstrap creates the static tree and writes the built-in config and
// stylesheet when they are missing. Existing files are left alone. It
// reports the paths it wrote.
func Bootstrap(l Layout) ([]string, error) {
	if err := os.MkdirAll(filepath.Join(l.StaticDir, "css"), 0o755); err != nil {
		return nil, fmt.Errorf("create static dir: %w", err)
	}
	if dir := filepath.Dir(l.ConfigPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
	}

	written := make([]string, 0, 2)
	for _, f := range []struct {
		path   string
		source string
	}{
		{path: l.StylesheetPath(), source: "defaults/main.css"},
		{path: l.ConfigPath, source: "defaults/config.toml"},
	} {
		ok, err := writeDefault(f.path, f.source)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, f.path)
		}
	}
	return written, nil
}

func writeDefault(path, source string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	b, err := defaultFiles.ReadFile(source)
	if err != nil {
		return false, err
	}
	if err := writeFileAtomically(path, b); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func writeFileAtomically(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
