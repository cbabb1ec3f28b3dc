package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DefaultTenantID = "default-app-id"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	App       AppConfig       `yaml:"app"`
	Identity  IdentityConfig  `yaml:"identity"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig controls bearer auth on the HTTP surface.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// AppConfig names the tenant whose data namespace the dashboard uses.
type AppConfig struct {
	TenantID string `yaml:"tenant_id"`
}

// IdentityConfig configures the local auth provider. An empty token secret
// disables custom tokens; anonymous sign-in still works.
type IdentityConfig struct {
	ClientID       string `yaml:"client_id"`
	TokenSecret    string `yaml:"token_secret"`
	BootstrapToken string `yaml:"bootstrap_token"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			SessionTimeout: 30 * time.Minute,
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		DB: DBConfig{
			Path: "backoffice.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		App: AppConfig{
			TenantID: DefaultTenantID,
		},
		Identity: IdentityConfig{
			ClientID: "default",
		},
	}

	if path := os.Getenv("BACKOFFICE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("BACKOFFICE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BACKOFFICE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid BACKOFFICE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("BACKOFFICE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv("BACKOFFICE_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid BACKOFFICE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if dbPath := os.Getenv("BACKOFFICE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BACKOFFICE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("BACKOFFICE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if appID := os.Getenv("BACKOFFICE_APP_ID"); appID != "" {
		cfg.App.TenantID = appID
	}
	if clientID := os.Getenv("BACKOFFICE_CLIENT_ID"); clientID != "" {
		cfg.Identity.ClientID = clientID
	}
	if secret := os.Getenv("BACKOFFICE_TOKEN_SECRET"); secret != "" {
		cfg.Identity.TokenSecret = secret
	}
	if token := os.Getenv("BACKOFFICE_INITIAL_AUTH_TOKEN"); token != "" {
		cfg.Identity.BootstrapToken = token
	}
	return nil
}

// Validate rejects settings the server cannot start with. Identity settings
// are not checked here: a bad identity setup degrades to demo mode at
// runtime instead.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q: want %s or %s", c.Transport.Mode, TransportStdio, TransportHTTP)
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Identity.TokenSecret) == "" {
		return fmt.Errorf("auth enabled but no token secret configured")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
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
