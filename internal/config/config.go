package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath          = "CONFIG_PATH"
	EnvDBConnection        = "DB_CONNECTION"
	EnvPort                = "PORT"
	EnvSessionTTL          = "SESSION_TTL"
	EnvSessionCookieSecure = "SESSION_COOKIE_SECURE"
	EnvBcryptCost          = "BCRYPT_COST"
	EnvLogLevel            = "LOG_LEVEL"
	EnvBootstrapUser       = "BOOTSTRAP_USER"
	EnvBootstrapPassword   = "BOOTSTRAP_PASSWORD"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// defaultSQLitePath is the default SQLite database file name.
const defaultSQLitePath = "tallyboard.db"

// LoadDatabaseDSN reads the database DSN from the environment or the YAML
// config file, falling back to a local SQLite file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSQLitePath, nil
		}
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return defaultSQLitePath, nil
}

// SessionConfig holds session lifetime and cookie settings.
type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	CookieSecure bool          `yaml:"cookie-secure"`
}

// defaultSessionTTL is used when the config omits or invalidates the TTL.
const defaultSessionTTL = 30 * 24 * time.Hour

// LoadSessionConfig loads session settings from the YAML config file.
func LoadSessionConfig(configPath string) (SessionConfig, error) {
	// fileConfig maps the YAML fields needed for session settings.
	type fileConfig struct {
		Session SessionConfig `yaml:"session"`
	}

	result := SessionConfig{TTL: defaultSessionTTL}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Session
		}
	}

	if ttlRaw := strings.TrimSpace(os.Getenv(EnvSessionTTL)); ttlRaw != "" {
		if ttl, errParse := time.ParseDuration(ttlRaw); errParse == nil && ttl > 0 {
			result.TTL = ttl
		}
	}
	if secureRaw := strings.TrimSpace(os.Getenv(EnvSessionCookieSecure)); secureRaw != "" {
		if secure, errParse := strconv.ParseBool(secureRaw); errParse == nil {
			result.CookieSecure = secure
		}
	}

	if result.TTL <= 0 {
		result.TTL = defaultSessionTTL
	}
	return result, nil
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt-cost"`
}

// LoadAuthConfig loads auth settings from the YAML config file. A zero cost
// means the bcrypt default.
func LoadAuthConfig(configPath string) (AuthConfig, error) {
	// fileConfig maps the YAML fields needed for auth settings.
	type fileConfig struct {
		Auth AuthConfig `yaml:"auth"`
	}

	var result AuthConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Auth
		}
	}

	if costRaw := strings.TrimSpace(os.Getenv(EnvBcryptCost)); costRaw != "" {
		if cost, errParse := strconv.Atoi(costRaw); errParse == nil && cost > 0 {
			result.BcryptCost = cost
		}
	}
	return result, nil
}

// BootstrapConfig holds the optional initial account seeded at startup.
type BootstrapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoadBootstrapConfig loads the seed account from the environment or the YAML
// config file. Both fields empty means no account is seeded.
func LoadBootstrapConfig(configPath string) BootstrapConfig {
	// fileConfig maps the YAML fields needed for bootstrap settings.
	type fileConfig struct {
		Bootstrap BootstrapConfig `yaml:"bootstrap"`
	}

	var result BootstrapConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Bootstrap
		}
	}

	if username := strings.TrimSpace(os.Getenv(EnvBootstrapUser)); username != "" {
		result.Username = username
	}
	if password := os.Getenv(EnvBootstrapPassword); password != "" {
		result.Password = password
	}
	return result
}

// LoadPort resolves the listen port from the environment, the YAML config
// file, or the fallback, in that order.
func LoadPort(configPath string, fallback int) int {
	if portRaw := strings.TrimSpace(os.Getenv(EnvPort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil && port > 0 && port <= 65535 {
			return port
		}
	}

	// fileConfig maps the YAML fields needed for port resolution.
	type fileConfig struct {
		Port int `yaml:"port"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			if cfg.Port > 0 && cfg.Port <= 65535 {
				return cfg.Port
			}
		}
	}
	return fallback
}

// LoadLogLevel resolves the logrus level name, defaulting to info.
func LoadLogLevel(configPath string) string {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		return level
	}

	// fileConfig maps the YAML fields needed for log level resolution.
	type fileConfig struct {
		LogLevel string `yaml:"log-level"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			if level := strings.TrimSpace(cfg.LogLevel); level != "" {
				return level
			}
		}
	}
	return "info"
}
