// internal/config/config.go
//
// This package handles configuration and the .talentbridge directory layout.
// The client keeps its config, session token and logs under a single
// directory in the user's home (overridable for tests).

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// BridgeDir is the name of the directory created in the user's home.
	BridgeDir = ".talentbridge"

	defaultBaseURL      = "https://api.talentbridge.io"
	defaultTimeoutSecs  = 15
	defaultPollSecs     = 10
	defaultLogFileName  = "session.log"
	defaultTokenName    = "token"
	defaultConfigName   = "config.yaml"
	defaultPageSize     = 20
	urgentDeadlineDays  = 3
)

const defaultConfigYAML = `# talentbridge client configuration
version: 1

api:
  base_url: https://api.talentbridge.io
  timeout_seconds: 15

chat:
  poll_seconds: 10

lists:
  page_size: 20
`

// APIConfig holds remote endpoint settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ChatConfig holds chat polling settings.
type ChatConfig struct {
	PollSeconds int `yaml:"poll_seconds"`
}

// ListConfig holds pagination preferences for list screens.
type ListConfig struct {
	PageSize int `yaml:"page_size"`
}

// FileConfig models ~/.talentbridge/config.yaml.
type FileConfig struct {
	Version int        `yaml:"version"`
	API     APIConfig  `yaml:"api"`
	Chat    ChatConfig `yaml:"chat"`
	Lists   ListConfig `yaml:"lists"`
}

// Config holds the runtime configuration for the client.
type Config struct {
	// BridgeHomeDir is where config.yaml, token and logs live.
	BridgeHomeDir string

	File FileConfig
}

// InitBridgeDir creates the .talentbridge directory structure under homeDir.
// Called once at startup before the TUI launches.
func InitBridgeDir(homeDir string) error {
	root := filepath.Join(homeDir, BridgeDir)
	dirs := []string{
		root,
		filepath.Join(root, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(root, defaultConfigName))
}

// New creates a Config rooted at homeDir/.talentbridge, loading config.yaml
// if present and applying environment overrides on top.
func New(homeDir string) (*Config, error) {
	cfg := &Config{
		BridgeHomeDir: filepath.Join(homeDir, BridgeDir),
		File:          defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.BridgeHomeDir, defaultConfigName)
}

// TokenPath returns where the session token is persisted.
func (c *Config) TokenPath() string {
	return filepath.Join(c.BridgeHomeDir, defaultTokenName)
}

// LogPath returns the session log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.BridgeHomeDir, "logs", defaultLogFileName)
}

// BaseURL returns the API server base URL, without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.File.API.BaseURL, "/")
}

// RequestTimeout returns the HTTP client timeout.
func (c *Config) RequestTimeout() time.Duration {
	secs := c.File.API.TimeoutSeconds
	if secs <= 0 {
		secs = defaultTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// ChatPollInterval returns how often the chat view refreshes messages.
func (c *Config) ChatPollInterval() time.Duration {
	secs := c.File.Chat.PollSeconds
	if secs <= 0 {
		secs = defaultPollSecs
	}
	return time.Duration(secs) * time.Second
}

// PageSize returns the page size used by list screens.
func (c *Config) PageSize() int {
	if c.File.Lists.PageSize <= 0 {
		return defaultPageSize
	}
	return c.File.Lists.PageSize
}

// UrgentDeadlineDays is the threshold under which a course deadline is
// flagged as urgent in the tracker view.
func (c *Config) UrgentDeadlineDays() int {
	return urgentDeadlineDays
}

// Save persists the current file config back to config.yaml.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(c.BridgeHomeDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure dir: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", c.ConfigPath(), err)
	}
	return nil
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.File = parsed
	return nil
}

// applyEnvOverrides lets environment variables win over config.yaml.
// TALENTBRIDGE_API_URL overrides the endpoint; the token override is read
// separately by the session layer.
func (c *Config) applyEnvOverrides() {
	if url := strings.TrimSpace(os.Getenv("TALENTBRIDGE_API_URL")); url != "" {
		c.File.API.BaseURL = url
	}
	if raw := strings.TrimSpace(os.Getenv("TALENTBRIDGE_POLL_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			c.File.Chat.PollSeconds = secs
		}
	}
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		API: APIConfig{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSecs,
		},
		Chat:  ChatConfig{PollSeconds: defaultPollSecs},
		Lists: ListConfig{PageSize: defaultPageSize},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.API.BaseURL) == "" {
		fc.API.BaseURL = defaultBaseURL
	}
	if fc.API.TimeoutSeconds <= 0 {
		fc.API.TimeoutSeconds = defaultTimeoutSecs
	}
	if fc.Chat.PollSeconds <= 0 {
		fc.Chat.PollSeconds = defaultPollSecs
	}
	if fc.Lists.PageSize <= 0 {
		fc.Lists.PageSize = defaultPageSize
	}
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if !strings.HasPrefix(fc.API.BaseURL, "http://") && !strings.HasPrefix(fc.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", fc.API.BaseURL)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}
