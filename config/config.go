package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config is the application configuration loaded from a TOML file and the environment.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Session  SessionConfig  `toml:"session"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

// RedisConfig holds the session storage connection. When Enabled is false sessions
// are kept in process memory.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Database int    `toml:"database"`
}

type SessionConfig struct {
	CookieName   string `toml:"cookie_name"`
	Expiration   string `toml:"expiration"`
	CookieSecure bool   `toml:"cookie_secure"`
}

// TTL parses Expiration, falling back to 24 hours.
func (s SessionConfig) TTL() time.Duration {
	d, err := time.ParseDuration(s.Expiration)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads the TOML file at path, or the embedded defaults when the file does not
// exist, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := fromFile(path)
	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration embedded in the binary.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &cfg
}

// WriteExample writes the embedded example config to path. It refuses to overwrite.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := env("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid PORT=%q", v)
		}
		c.Server.Port = port
	}
	if v := env("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := env("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := env("REDIS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid REDIS_PORT=%q", v)
		}
		c.Redis.Port = port
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := env("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_ENABLED=%q", v)
		}
		c.Redis.Enabled = enabled
	}
	if v := env("SESSION_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_SECURE=%q", v)
		}
		c.Session.CookieSecure = secure
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
