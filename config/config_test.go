package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/paynow?parseTime=true")
	setEnv(t, "APP_SERVICE_NAME", "paynow-test")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "PAYNOW_SERVICE_KEY", "sk-test")
	setEnv(t, "PAYNOW_VERIFY_TIMEOUT_SECONDS", "7")
	setEnv(t, "PAYNOW_PENDING_TIMEOUT_MINUTES", "60")
	setEnv(t, "STOREFRONT_BASE_URL", "https://shop.example.com")
	setEnv(t, "PAYNOW_JOB_BATCH_SIZE", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "paynow-test" {
		t.Errorf("service name: got %q", cfg.App.ServiceName)
	}
	if cfg.HTTP.Port != "8181" {
		t.Errorf("http port: got %q", cfg.HTTP.Port)
	}
	if cfg.HTTP.Host != "0.0.0.0" {
		t.Errorf("http host default: got %q", cfg.HTTP.Host)
	}
	if cfg.MySQL.MaxOpenConns != 20 {
		t.Errorf("max open conns: got %d", cfg.MySQL.MaxOpenConns)
	}
	if cfg.MySQL.MaxIdleConns != 8 {
		t.Errorf("max idle conns: got %d", cfg.MySQL.MaxIdleConns)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Errorf("conn max lifetime: got %v", cfg.MySQL.ConnMaxLifetime)
	}
	if cfg.PayNow.ServiceKey != "sk-test" {
		t.Errorf("service key: got %q", cfg.PayNow.ServiceKey)
	}
	if cfg.PayNow.VerifyTimeout != 7*time.Second {
		t.Errorf("verify timeout: got %v", cfg.PayNow.VerifyTimeout)
	}
	if cfg.PayNow.PendingTimeout != 60*time.Minute {
		t.Errorf("pending timeout: got %v", cfg.PayNow.PendingTimeout)
	}
	if cfg.PayNow.VerifyURL == "" {
		t.Error("verify url default missing")
	}
	if cfg.Storefront.BaseURL != "https://shop.example.com" {
		t.Errorf("storefront base url: got %q", cfg.Storefront.BaseURL)
	}
	if cfg.Storefront.AccountPagePath != "/my-account/" {
		t.Errorf("account page path default: got %q", cfg.Storefront.AccountPagePath)
	}
	if cfg.Jobs.BatchSize != 99 {
		t.Errorf("job batch size: got %d", cfg.Jobs.BatchSize)
	}
}
