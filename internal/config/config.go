// Package config loads runtime configuration from YAML with environment
// fallbacks for deployment platforms that only expose env vars.
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
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3000
	defaultEnv        = "development"
	defaultRedisURL   = "redis://localhost:6379/0"
	defaultSessionTTL = 5 * time.Minute
	defaultTimezone   = "Asia/Jakarta"
	defaultMaxSizeMB  = 10
)

// AppConfig holds runtime startup configuration.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production"
	RedisURL       string          `yaml:"redis_url"`
	AdminSecret    string          `yaml:"admin_secret"`
	SessionTTL     time.Duration   `yaml:"session_ttl"`
	Timezone       string          `yaml:"timezone"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Telegram       TelegramOptions `yaml:"telegram"`
	Captcha        CaptchaOptions  `yaml:"captcha"`
	Upload         UploadOptions   `yaml:"upload"`
}

// TelegramOptions configures the chat-notification relay.
type TelegramOptions struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	APIBase  string `yaml:"api_base"` // override for tests; default https://api.telegram.org
}

// CaptchaOptions configures the human-verification service.
type CaptchaOptions struct {
	Enable    bool   `yaml:"enable"`
	Secret    string `yaml:"secret"`
	VerifyURL string `yaml:"verify_url"`
}

// UploadOptions configures the image upload chain: primary host, one
// fallback, optional S3 backend that takes precedence when configured.
type UploadOptions struct {
	MaxSizeMB   int       `yaml:"max_size_mb"`
	PrimaryURL  string    `yaml:"primary_url"`
	FallbackURL string    `yaml:"fallback_url"`
	S3          S3Options `yaml:"s3"`
}

// S3Options configures the optional S3 image host.
type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// Enabled reports whether the S3 backend is fully configured.
func (o S3Options) Enabled() bool {
	return o.Bucket != "" && o.Region != "" && o.AccessKeyID != "" && o.SecretAccessKey != ""
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Location resolves the configured display timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type rawAppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"`
	RedisURL       string          `yaml:"redis_url"`
	AdminSecret    string          `yaml:"admin_secret"`
	SessionTTL     string          `yaml:"session_ttl"`
	Timezone       string          `yaml:"timezone"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Telegram       TelegramOptions `yaml:"telegram"`
	Captcha        CaptchaOptions  `yaml:"captcha"`
	Upload         UploadOptions   `yaml:"upload"`
}

// Load reads the config file at path. A missing file is not an error: env
// fallbacks and defaults still apply.
func Load(path string) (*AppConfig, error) {
	var raw rawAppConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env/defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return normalize(raw)
}

func normalize(raw rawAppConfig) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           raw.Port,
		Env:            strings.TrimSpace(raw.Env),
		RedisURL:       strings.TrimSpace(raw.RedisURL),
		AdminSecret:    strings.TrimSpace(raw.AdminSecret),
		SessionTTL:     defaultSessionTTL,
		Timezone:       strings.TrimSpace(raw.Timezone),
		AllowedOrigins: raw.AllowedOrigins,
		Telegram:       raw.Telegram,
		Captcha:        raw.Captcha,
		Upload:         raw.Upload,
	}

	if ttl := strings.TrimSpace(raw.SessionTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid session_ttl %q", raw.SessionTTL)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	applyEnv(&cfg.Env, "APP_ENV")
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	applyEnv(&cfg.RedisURL, "REDIS_URL")
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}

	applyEnv(&cfg.AdminSecret, "ADMIN_SECRET")
	if cfg.AdminSecret == "" {
		return nil, fmt.Errorf("admin_secret is required (config or ADMIN_SECRET env)")
	}

	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}

	applyEnv(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	applyEnv(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	applyEnv(&cfg.Captcha.Secret, "CAPTCHA_SECRET")

	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = defaultMaxSizeMB
	}

	return cfg, nil
}

// applyEnv overwrites dst with the env value only when the env var is set.
func applyEnv(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}
