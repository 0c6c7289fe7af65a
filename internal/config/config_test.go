package config

import (
	"testing"
	"time"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok_abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("WEBHOOK_HOST", "127.0.0.1")
	t.Setenv("WEBHOOK_PORT", "8088")
	t.Setenv("HEALTH_CHECK_INTERVAL", "60")
	t.Setenv("HEALTH_CHECK_TIMEOUT", "5")
	t.Setenv("MONITOR_URLS", "https://a.com, https://b.com ,")
	t.Setenv("MONITORED_BRANCHES", "main,release")
	t.Setenv("LOG_DIR", "./_testlogs")

	cfg := FromEnv()

	if cfg.TelegramBotToken != "tok_abc" || cfg.TelegramChatID != "-100123" {
		t.Fatalf("credentials wrong: %+v", cfg)
	}
	if cfg.Addr != "127.0.0.1:8088" {
		t.Fatalf("addr wrong: %q", cfg.Addr)
	}
	if cfg.CheckInterval != 60*time.Second || cfg.CheckTimeout != 5*time.Second {
		t.Fatalf("durations wrong: %+v", cfg)
	}
	if len(cfg.MonitorURLs) != 2 || cfg.MonitorURLs[1] != "https://b.com" {
		t.Fatalf("monitor urls wrong: %+v", cfg.MonitorURLs)
	}
	if len(cfg.MonitoredBranches) != 2 || cfg.MonitoredBranches[1] != "release" {
		t.Fatalf("branches wrong: %+v", cfg.MonitoredBranches)
	}
	if cfg.MonitorConfigExplicit {
		t.Fatal("config path was not set explicitly")
	}
	if cfg.MonitorConfigPath != "monitor_urls.yaml" {
		t.Fatalf("default monitor path wrong: %q", cfg.MonitorConfigPath)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "WEBHOOK_HOST", "WEBHOOK_PORT",
		"HEALTH_CHECK_INTERVAL", "HEALTH_CHECK_TIMEOUT", "MONITOR_CONFIG_PATH",
		"MONITOR_URLS", "MONITORED_BRANCHES", "LOG_DIR",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.Addr != "0.0.0.0:5000" {
		t.Fatalf("default addr wrong: %q", cfg.Addr)
	}
	if cfg.CheckInterval != 300*time.Second || cfg.CheckTimeout != 10*time.Second {
		t.Fatalf("default durations wrong: %+v", cfg)
	}
	if cfg.LogDir != "logs" {
		t.Fatalf("default log dir wrong: %q", cfg.LogDir)
	}
	if len(cfg.MonitoredBranches) != 1 || cfg.MonitoredBranches[0] != "main" {
		t.Fatalf("default branches wrong: %+v", cfg.MonitoredBranches)
	}
}

func TestFromEnv_ExplicitMonitorPath(t *testing.T) {
	t.Setenv("MONITOR_CONFIG_PATH", "/etc/healthbot/monitors.yaml")
	cfg := FromEnv()
	if !cfg.MonitorConfigExplicit || cfg.MonitorConfigPath != "/etc/healthbot/monitors.yaml" {
		t.Fatalf("explicit path wrong: %+v", cfg)
	}
}

func TestValidate_RequiresCredentials(t *testing.T) {
	if err := (Config{TelegramChatID: "1"}).Validate(); err == nil {
		t.Fatal("want error without bot token")
	}
	if err := (Config{TelegramBotToken: "t"}).Validate(); err == nil {
		t.Fatal("want error without chat id")
	}
	if err := (Config{TelegramBotToken: "t", TelegramChatID: "1"}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
