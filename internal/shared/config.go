package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Site     SiteConfig     `toml:"site"`
	Database DatabaseConfig `toml:"database"`
	YouTube  YouTubeConfig  `toml:"youtube"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	StaticDir    string `toml:"static_dir"`
	TemplatesDir string `toml:"templates_dir"`
	DevMode      bool   `toml:"dev_mode"`
}

// SiteConfig is the data every page template receives.
type SiteConfig struct {
	Title       string `toml:"title"`
	Author      string `toml:"author"`
	URL         string `toml:"url"`
	Description string `toml:"description"`
	Route       string `toml:"route"`
	Year        string `toml:"year"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// YouTubeConfig contains YouTube Data API credentials and client settings.
type YouTubeConfig struct {
	ClientSecretPath  string  `toml:"client_secret_path"`
	TokenCachePath    string  `toml:"token_cache_path"`
	APIURL            string  `toml:"api_url"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	RedirectPort      int     `toml:"redirect_port"`
}

// envOverrides holds values read from the process environment. Zero values leave the file config alone.
type envOverrides struct {
	BaseURL  string `env:"BASE_URL"`
	Route    string `env:"ROUTE"`
	Host     string `env:"CALLOUTS_HOST"`
	Port     int    `env:"CALLOUTS_PORT"`
	Database string `env:"CALLOUTS_DATABASE"`
	DevMode  bool   `env:"CALLOUTS_DEV"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides config values with any set environment variables.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}

	if o.BaseURL != "" {
		c.Site.URL = o.BaseURL
	}
	if o.Route != "" {
		c.Site.Route = o.Route
	}
	if o.Host != "" {
		c.Server.Host = o.Host
	}
	if o.Port != 0 {
		c.Server.Port = o.Port
	}
	if o.Database != "" {
		c.Database.Path = o.Database
	}
	if o.DevMode {
		c.Server.DevMode = true
	}
	return nil
}

// Validate reports missing settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Site.URL == "" {
		return fmt.Errorf("%w: site url is not set (BASE_URL)", ErrInvalidConfig)
	}
	if c.Site.Route == "" {
		return fmt.Errorf("%w: site route is not set (ROUTE)", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
