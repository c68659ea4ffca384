package config

import (
	"os"
	"strings"
)

// Config is the runtime layer read from the environment. Values from the
// action file (port, session id) are only used when these are unset.
type Config struct {
	ConfigPath string
	StaticDir  string
	Host       string
	Port       int
	SessionID  string
	LogLevel   string
	LogFormat  string
	Watch      bool
	NoQR       bool
}

const (
	defaultConfigPath = "./config.toml"
	defaultStaticDir  = "./static"
	defaultHost       = "0.0.0.0"
)

func LoadConfig() Config {
	return loadFromEnv()
}

func loadFromEnv() Config {
	configPath := strings.TrimSpace(os.Getenv("REMOTECTL_CONFIG"))
	if configPath == "" {
		configPath = defaultConfigPath
	}
	staticDir := strings.TrimSpace(os.Getenv("REMOTECTL_STATIC_DIR"))
	if staticDir == "" {
		staticDir = defaultStaticDir
	}
	host := strings.TrimSpace(os.Getenv("REMOTECTL_HOST"))
	if host == "" {
		host = defaultHost
	}
	level := strings.TrimSpace(os.Getenv("REMOTECTL_LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	format := strings.ToLower(strings.TrimSpace(os.Getenv("REMOTECTL_LOG_FORMAT")))
	if format != "text" {
		format = "json"
	}
	return Config{
		ConfigPath: configPath,
		StaticDir:  staticDir,
		Host:       host,
		// Malformed ports fall back to "use the file value".
		Port:      atoiOrDefault(strings.TrimSpace(os.Getenv("REMOTECTL_PORT")), 0),
		SessionID: strings.TrimSpace(os.Getenv("REMOTECTL_SESSION_ID")),
		LogLevel:  level,
		LogFormat: format,
		Watch:     os.Getenv("REMOTECTL_WATCH") == "1",
		NoQR:      os.Getenv("REMOTECTL_NO_QR") == "1",
	}
}

func atoiOrDefault(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n := 0
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fallback
		}
		n = n*10 + int(v[i]-'0')
		if n > 65535 {
			return fallback
		}
	}
	return n
}
