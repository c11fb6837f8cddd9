package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rpggio/spectator/internal/paginate"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	DB         DBConfig        `yaml:"db"`
	Log        LogConfig       `yaml:"log"`
	Transport  TransportConfig `yaml:"transport"`
	Auth       AuthConfig      `yaml:"auth"`
	Pagination paginate.Policy `yaml:"pagination"`
	Maps       MapsConfig      `yaml:"maps"`
	CORS       CORSConfig      `yaml:"cors"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the
	// console.
	Path string `yaml:"path"`
}

// TransportConfig selects how the MCP server is exposed: "http" mounts it
// on the web server, "stdio" serves a single client over stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig guards API writes and HTTP MCP calls with bearer API keys.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MapsConfig struct {
	APIKey string `yaml:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age"`
}

// RateLimitConfig bounds API writes per client IP.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "spectator.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Pagination: paginate.DefaultPolicy(),
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 60,
			Window:   time.Minute,
		},
	}
}

// Load reads configuration from the YAML file named by
// SPECTATOR_CONFIG_PATH, if any, and environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SPECTATOR_CONFIG_PATH"))
}

// LoadFile reads configuration from an optional YAML file at path, then
// applies environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SPECTATOR_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SPECTATOR_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SPECTATOR_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("SPECTATOR_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SPECTATOR_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("SPECTATOR_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("SPECTATOR_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if authStr := os.Getenv("SPECTATOR_AUTH_ENABLED"); authStr != "" {
		enabled, err := strconv.ParseBool(authStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SPECTATOR_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if key := os.Getenv("SPECTATOR_MAPS_API_KEY"); key != "" {
		cfg.Maps.APIKey = key
	}
	if sizeStr := os.Getenv("SPECTATOR_PAGE_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SPECTATOR_PAGE_SIZE: %w", err)
		}
		cfg.Pagination.PerPage = size
	}
	if softStr := os.Getenv("SPECTATOR_SOFT_LIMIT"); softStr != "" {
		soft, err := strconv.ParseBool(softStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SPECTATOR_SOFT_LIMIT: %w", err)
		}
		cfg.Pagination.SoftLimit = soft
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Transport.Mode != "http" && c.Transport.Mode != "stdio" {
		return fmt.Errorf("invalid transport mode %q (want http or stdio)", c.Transport.Mode)
	}
	if c.Pagination.PerPage < 1 {
		return fmt.Errorf("invalid page size %d", c.Pagination.PerPage)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs positive requests and window")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
