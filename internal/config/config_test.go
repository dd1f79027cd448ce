package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost:5432/streamshop
web:
  admin_password: hunter2
  session_secret: 0123456789abcdef
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Web.Port)
	}
	if cfg.Web.SessionTTL != 30*time.Minute {
		t.Errorf("default session TTL: got %v", cfg.Web.SessionTTL)
	}
	if cfg.Store.SubscriptionDays != 30 {
		t.Errorf("default subscription days: got %d", cfg.Store.SubscriptionDays)
	}
	if cfg.Store.OrderRateLimit != 5 || cfg.Store.OrderRateWindow != time.Hour {
		t.Errorf("default rate limit: got %d per %v", cfg.Store.OrderRateLimit, cfg.Store.OrderRateWindow)
	}
	if cfg.Scheduler.ExpiryCheckInterval != time.Hour || cfg.Scheduler.ExpiryWarnDays != 3 {
		t.Errorf("default scheduler: got %v / %d days", cfg.Scheduler.ExpiryCheckInterval, cfg.Scheduler.ExpiryWarnDays)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("default log: got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag should be carried into the config")
	}
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
database:
  url: postgres://localhost:5432/streamshop
redis:
  url: localhost:6379
web:
  port: 9000
  admin_password: hunter2
  session_secret: 0123456789abcdef
  session_ttl: 1h
store:
  subscription_days: 45
  payment_accounts:
    - "Bank 123-456"
    - "Wallet 789"
  support_whatsapp: "+5491100000001"
smtp:
  host: smtp.example.com
  port: 587
  admin_email: owner@example.com
scheduler:
  expiry_warn_days: 7
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Web.Port != 9000 || cfg.Web.SessionTTL != time.Hour {
		t.Errorf("web config not parsed: %+v", cfg.Web)
	}
	if cfg.Store.SubscriptionDays != 45 || len(cfg.Store.PaymentAccounts) != 2 {
		t.Errorf("store config not parsed: %+v", cfg.Store)
	}
	if !cfg.SMTP.Enabled() {
		t.Error("smtp with host, port and admin email should be enabled")
	}
	if cfg.Scheduler.ExpiryWarnDays != 7 {
		t.Errorf("scheduler config not parsed: %+v", cfg.Scheduler)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing database url", `
web:
  admin_password: hunter2
  session_secret: s
`},
		{"missing admin password", `
database:
  url: postgres://localhost/db
web:
  session_secret: s
`},
		{"missing session secret", `
database:
  url: postgres://localhost/db
web:
  admin_password: hunter2
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.body), false); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSMTPEnabled(t *testing.T) {
	if (SMTPConfig{Host: "smtp.example.com", Port: 587}).Enabled() {
		t.Error("smtp without an admin address should be disabled")
	}
	if (SMTPConfig{}).Enabled() {
		t.Error("empty smtp config should be disabled")
	}
}
