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
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "leads.db"
	defaultStoreDriver    = "gorm"
	defaultAdminUsername  = "admin"
	defaultAdminPassword  = "password"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTTTL         = "12h"
	defaultPageSize       = 8
	defaultUploadDir      = "./uploads"
	defaultMaxResumeBytes = 10 * 1024 * 1024
)

const (
	StoreGorm   = "gorm"
	StoreMemory = "memory"
)

// Config is the runtime configuration of the API server.
type Config struct {
	AppEnv                 string        `yaml:"app_env"`
	HTTPAddr               string        `yaml:"http_addr"`
	DatabaseURL            string        `yaml:"database_url"`
	StoreDriver            string        `yaml:"store_driver"`
	AdminUsername          string        `yaml:"admin_username"`
	AdminPassword          string        `yaml:"admin_password"`
	JWTSecret              string        `yaml:"jwt_secret"`
	JWTTTL                 time.Duration `yaml:"jwt_ttl"`
	PageSize               int           `yaml:"page_size"`
	UploadDir              string        `yaml:"upload_dir"`
	MaxResumeBytes         int64         `yaml:"max_resume_bytes"`
	TrustClientSubmittedAt bool          `yaml:"trust_client_submitted_at"`
	CORSAllowedOrigins     []string      `yaml:"cors_allowed_origins"`
	LogLevel               string        `yaml:"log_level"`
}

// Load builds the config from defaults, the optional YAML file at path and
// then environment variables, in that order of precedence (env wins).
func Load(path string) (*Config, error) {
	ttl, _ := time.ParseDuration(defaultJWTTTL)
	cfg := &Config{
		AppEnv:         "dev",
		HTTPAddr:       defaultHTTPAddr,
		DatabaseURL:    defaultDatabaseURL,
		StoreDriver:    defaultStoreDriver,
		AdminUsername:  defaultAdminUsername,
		AdminPassword:  defaultAdminPassword,
		JWTSecret:      defaultJWTSecret,
		JWTTTL:         ttl,
		PageSize:       defaultPageSize,
		UploadDir:      defaultUploadDir,
		MaxResumeBytes: defaultMaxResumeBytes,
		LogLevel:       "info",
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProd reports whether the config targets a production-like environment.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func applyEnv(cfg *Config) error {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv != "" {
		cfg.AppEnv = appEnv
	}

	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.UploadDir, "UPLOAD_DIR")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := env("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL value %q: %w", v, err)
		}
		cfg.JWTTTL = d
	}
	if v := env("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAGE_SIZE value %q: %w", v, err)
		}
		cfg.PageSize = n
	}
	if v := env("MAX_RESUME_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_RESUME_BYTES value %q: %w", v, err)
		}
		cfg.MaxResumeBytes = n
	}
	if v := env("TRUST_CLIENT_SUBMITTED_AT"); v != "" {
		cfg.TrustClientSubmittedAt = parseBool(v)
	}
	if v := env("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.StoreDriver != StoreGorm && cfg.StoreDriver != StoreMemory {
		return fmt.Errorf("STORE_DRIVER must be one of: gorm, memory")
	}
	if cfg.StoreDriver == StoreGorm && cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be > 0")
	}
	if cfg.MaxResumeBytes <= 0 {
		return fmt.Errorf("MAX_RESUME_BYTES must be > 0")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func setString(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
