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

type WebConfig struct {
	Port          int           `yaml:"port"`
	SessionSecret string        `yaml:"session_secret"`
	AdminPassword string        `yaml:"admin_password"`
	CookieDomain  string        `yaml:"cookie_domain"`
	SecureCookie  bool          `yaml:"secure_cookie"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// StoreConfig parameterizes the sales flow: how long a sold subscription
// lasts and what the customer sees on the payment page.
type StoreConfig struct {
	SubscriptionDays    int           `yaml:"subscription_days"`
	PaymentQRURL        string        `yaml:"payment_qr_url"`
	PaymentInstructions string        `yaml:"payment_instructions"`
	PaymentAccounts     []string      `yaml:"payment_accounts"`
	SupportWhatsApp     string        `yaml:"support_whatsapp"`
	OrderRateLimit      int           `yaml:"order_rate_limit"`
	OrderRateWindow     time.Duration `yaml:"order_rate_window"`
}

type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	AdminEmail string `yaml:"admin_email"`
}

// Enabled reports whether enough is configured to actually send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.AdminEmail != ""
}

type SchedulerConfig struct {
	ExpiryCheckInterval time.Duration `yaml:"expiry_check_interval"`
	ExpiryWarnDays      int           `yaml:"expiry_warn_days"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`
	Store     StoreConfig     `yaml:"store"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

// Load reads the YAML config at path and applies defaults and minimal
// validation. The result is passed explicitly to the components that need
// it; there is no package-level configuration state.
func Load(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Web.AdminPassword == "" {
		return nil, errors.New("web.admin_password is required")
	}
	if cfg.Web.SessionSecret == "" {
		return nil, errors.New("web.session_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}
	if cfg.Store.SubscriptionDays <= 0 {
		cfg.Store.SubscriptionDays = 30
	}
	if cfg.Store.OrderRateLimit <= 0 {
		cfg.Store.OrderRateLimit = 5
	}
	if cfg.Store.OrderRateWindow <= 0 {
		cfg.Store.OrderRateWindow = time.Hour
	}
	if cfg.Scheduler.ExpiryCheckInterval <= 0 {
		cfg.Scheduler.ExpiryCheckInterval = time.Hour
	}
	if cfg.Scheduler.ExpiryWarnDays <= 0 {
		cfg.Scheduler.ExpiryWarnDays = 3
	}
}
