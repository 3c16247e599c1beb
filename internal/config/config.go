package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"personality_insights/internal/workspace"
)

const (
	DefaultResultsURL     = "http://localhost:5000"
	DefaultFetchTimeout   = 10 * time.Second
	DefaultListenAddr     = ":8080"
	DefaultLogMode        = "development"
	DefaultFrontendOrigin = "http://localhost:5173"
	DefaultTheme          = "auto"
	WorkspaceDirName      = workspace.BaseDirName
	DatabaseFileName      = "insights.db"
)

type Config struct {
	ResultsURL   string        `yaml:"results_url" env:"PID_RESULTS_URL"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"PID_FETCH_TIMEOUT"`
	Workspace    string        `yaml:"workspace" env:"PID_WORKSPACE"`
	DBPath       string        `yaml:"db_path" env:"PID_DB_PATH"`
	ListenAddr   string        `yaml:"listen_addr" env:"PID_LISTEN_ADDR"`
	LogMode      string        `yaml:"log_mode" env:"PID_LOG_MODE"`
	Theme        string        `yaml:"theme" env:"PID_THEME"`
	Workers      int           `yaml:"workers" env:"PID_WORKERS"`

	// Browser origins allowed to call the HTTP API.
	AllowedOrigins []string `yaml:"allowed_origins" env:"PID_ALLOWED_ORIGINS" envSeparator:","`
}

// Load layers configuration from lowest to highest precedence: the
// workspace configs/settings.json, the optional YAML file at path, then PID_*
// environment variables. Anything still unset gets a default.
func Load(path string) (Config, error) {
	var cfg Config
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", filepath.Base(path), err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.resolveWorkspace()
	if err := cfg.applySettings(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolveWorkspace() {
	if strings.TrimSpace(c.Workspace) != "" {
		return
	}
	if home, err := os.UserHomeDir(); err == nil {
		c.Workspace = filepath.Join(home, WorkspaceDirName)
	} else {
		c.Workspace = WorkspaceDirName
	}
}

// applySettings fills fields left empty by the file and environment from the
// workspace settings. A workspace without settings.json is not an error.
func (c *Config) applySettings() error {
	s, err := workspace.LoadSettings(c.Workspace)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("workspace settings: %w", err)
	}
	if strings.TrimSpace(c.ResultsURL) == "" {
		c.ResultsURL = s.ResultsURL
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = s.Theme
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ResultsURL) == "" {
		c.ResultsURL = DefaultResultsURL
	}
	c.ResultsURL = strings.TrimRight(strings.TrimSpace(c.ResultsURL), "/")
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = DefaultTheme
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = filepath.Join(c.Workspace, DatabaseFileName)
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if strings.TrimSpace(c.LogMode) == "" {
		c.LogMode = DefaultLogMode
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{DefaultFrontendOrigin}
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.ResultsURL)
	if err != nil {
		return fmt.Errorf("results_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("results_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("results_url: missing host")
	}
	return nil
}
