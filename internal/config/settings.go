package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBaseURL        = "http://127.0.0.1:8080"
	defaultTimeoutSeconds = 10
	defaultLogLevel       = "info"

	// BaseURLEnv overrides service.base_url from the config file.
	BaseURLEnv = "NOTEPAD_BASE_URL"
)

type Config struct {
	Service     ServiceConfig     `toml:"service"`
	Logging     LoggingConfig     `toml:"logging"`
	UI          UIConfig          `toml:"ui"`
	Keybindings map[string]string `toml:"keybindings"`
}

type ServiceConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type UIConfig struct {
	Preview bool `toml:"preview"`
}

func Default() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}

// Load reads the config file from the data directory. A missing or empty
// file yields the defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// BaseURL resolves the notes service base URL: the environment override
// wins over the file, and a trailing slash is dropped.
func (c Config) BaseURL() string {
	if env := strings.TrimSpace(os.Getenv(BaseURLEnv)); env != "" {
		return NormalizeBaseURL(env)
	}
	return NormalizeBaseURL(c.Service.BaseURL)
}

func (c Config) Timeout() time.Duration {
	if c.Service.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return defaultLogLevel
	}
	return level
}

func (c Config) PreviewEnabled() bool {
	return c.UI.Preview
}

func (c Config) KeybindingOverrides() map[string]string {
	out := make(map[string]string, len(c.Keybindings))
	for command, key := range c.Keybindings {
		command = strings.TrimSpace(command)
		key = strings.TrimSpace(key)
		if command == "" || key == "" {
			continue
		}
		out[command] = key
	}
	return out
}

// NormalizeBaseURL adds a scheme to bare host:port values and strips
// trailing slashes. Blank input yields the default.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	raw = strings.TrimRight(raw, "/")
	if raw == "http:" || raw == "https:" {
		return defaultBaseURL
	}
	return raw
}

// ValidateBaseURL reports whether raw is usable as a service base URL.
func ValidateBaseURL(raw string) error {
	parsed, err := url.Parse(NormalizeBaseURL(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("base url has no host")
	}
	return nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
