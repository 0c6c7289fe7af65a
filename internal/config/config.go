package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramBotToken string // Telegram bot token, required
	TelegramChatID   string // destination chat, required

	Addr   string // webhook bind address, host:port
	LogDir string // logs directory

	CheckInterval time.Duration // time between probe cycles
	CheckTimeout  time.Duration // per-probe HTTP timeout

	MonitorConfigPath     string   // YAML monitor file
	MonitorConfigExplicit bool     // MONITOR_CONFIG_PATH was set; a missing file is then fatal
	MonitorURLs           []string // flat fallback list when the YAML file is absent

	MonitoredBranches []string // GitLab branches worth notifying about
}

func FromEnv() Config {
	host := os.Getenv("WEBHOOK_HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := 5000
	if v := os.Getenv("WEBHOOK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	interval := 300 * time.Second
	if v := os.Getenv("HEALTH_CHECK_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	timeout := 10 * time.Second
	if v := os.Getenv("HEALTH_CHECK_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	monitorPath := os.Getenv("MONITOR_CONFIG_PATH")
	explicit := monitorPath != ""
	if monitorPath == "" {
		monitorPath = "monitor_urls.yaml"
	}

	branches := splitList(os.Getenv("MONITORED_BRANCHES"))
	if len(branches) == 0 {
		branches = []string{"main"}
	}

	return Config{
		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:        os.Getenv("TELEGRAM_CHAT_ID"),
		Addr:                  net.JoinHostPort(host, strconv.Itoa(port)),
		LogDir:                logDir,
		CheckInterval:         interval,
		CheckTimeout:          timeout,
		MonitorConfigPath:     monitorPath,
		MonitorConfigExplicit: explicit,
		MonitorURLs:           splitList(os.Getenv("MONITOR_URLS")),
		MonitoredBranches:     branches,
	}
}

// Validate checks the required sink credentials; the process must not start
// without them.
func (c Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return errors.New("TELEGRAM_CHAT_ID is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
