package actions

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// idLength is the number of hex characters kept from the command digest.
const idLength = 16

type Action struct {
	DisplayName string `json:"display_name" toml:"display_name" yaml:"display_name"`
	Cmd         string `json:"cmd" toml:"cmd" yaml:"cmd"`
	// ID is derived from Cmd at load time and never read from the file.
	ID string `json:"-" toml:"-" yaml:"-"`
}

// Config is a validated action file. It is built from fileConfig and never
// decoded directly.
type Config struct {
	SessionID string
	Port      int
	Title     string
	Actions   []Action
}

// fileConfig is the on-disk document. keys records the top-level keys so a
// missing `action` can be told apart from an empty list.
type fileConfig struct {
	SessionID string   `json:"session_id" toml:"session_id" yaml:"session_id"`
	Port      int      `json:"port" toml:"port" yaml:"port"`
	Title     string   `json:"title" toml:"title" yaml:"title"`
	Actions   []Action `json:"action" toml:"action" yaml:"action"`

	keys map[string]any
}

// ConfigError reports a configuration file that could not be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads the action file at path and derives the id of every action.
// The decoder is chosen by extension; anything but .yaml, .yml and .json is
// parsed as TOML.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	var raw fileConfig
	if err := decode(path, b, &raw); err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	cfg, err := normalizeConfig(raw)
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

func decode(path string, b []byte, out *fileConfig) error {
	unmarshal := toml.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(b, out); err != nil {
		return err
	}
	return unmarshal(b, &out.keys)
}

func normalizeConfig(raw fileConfig) (Config, error) {
	if _, ok := raw.keys["action"]; !ok {
		return Config{}, errors.New("missing required key \"action\"")
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", raw.Port)
	}
	list := make([]Action, 0, len(raw.Actions))
	for i, a := range raw.Actions {
		if strings.TrimSpace(a.DisplayName) == "" {
			return Config{}, fmt.Errorf("action[%d]: display_name is required", i)
		}
		if strings.TrimSpace(a.Cmd) == "" {
			return Config{}, fmt.Errorf("action[%d] %q: cmd is required", i, a.DisplayName)
		}
		list = append(list, Action{
			DisplayName: a.DisplayName,
			Cmd:         a.Cmd,
			ID:          ActionID(a.Cmd),
		})
	}
	return Config{
		SessionID: strings.TrimSpace(raw.SessionID),
		Port:      raw.Port,
		Title:     raw.Title,
		Actions:   list,
	}, nil
}

// ActionID returns the route token for a command. Every call hashes with a
// fresh digest, so the id depends on the command text only and identical
// commands share an id.
func ActionID(cmd string) string {
	sum := sha1.Sum([]byte(cmd))
	return hex.EncodeToString(sum[:])[:idLength]
}

// WithSessionID fills in a random session id when the file did not set one.
func WithSessionID(cfg Config) Config {
	if strings.TrimSpace(cfg.SessionID) == "" {
		cfg.SessionID = uuid.NewString()
	}
	return cfg
}
