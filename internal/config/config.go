package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public site URL used for checkout callbacks
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PaystackConfig holds gateway credentials. Secrets are deliberately NOT
// validated at load time; the dependent operation fails with a descriptive
// error when a secret is missing.
type PaystackConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	PublicKey     string `yaml:"public_key"`
	BaseURL       string `yaml:"base_url"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type SchedConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	StaleAfter        time.Duration `yaml:"stale_after"`
	ExpiryInterval    time.Duration `yaml:"expiry_interval"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Paystack PaystackConfig `yaml:"paystack"`
	Mail     MailConfig     `yaml:"mail"`
	Auth     AuthConfig     `yaml:"auth"`
	Sched    SchedConfig    `yaml:"sched"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies defaults and environment overrides,
// and performs minimal validation.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// env overrides for secrets
	applyEnv(&cfg.Database.URL, "DATABASE_URL")
	applyEnv(&cfg.Redis.URL, "REDIS_URL")
	applyEnv(&cfg.Paystack.SecretKey, "PAYSTACK_SECRET_KEY")
	applyEnv(&cfg.Paystack.WebhookSecret, "PAYSTACK_WEBHOOK_SECRET")
	applyEnv(&cfg.Paystack.PublicKey, "PAYSTACK_PUBLIC_KEY")
	applyEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	applyEnv(&cfg.Mail.Password, "SMTP_PASSWORD")

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.Sched.ReconcileInterval <= 0 {
		cfg.Sched.ReconcileInterval = time.Minute
	}
	if cfg.Sched.StaleAfter <= 0 {
		cfg.Sched.StaleAfter = 10 * time.Minute
	}
	if cfg.Sched.ExpiryInterval <= 0 {
		cfg.Sched.ExpiryInterval = time.Hour
	}

	// Minimal validation. Gateway and mail secrets are checked at call time.
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
