package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cinotify/healthbot/internal/config"
	"github.com/cinotify/healthbot/internal/gitlab"
	"github.com/cinotify/healthbot/internal/httpapi"
	"github.com/cinotify/healthbot/internal/logging"
	"github.com/cinotify/healthbot/internal/notify"
	"github.com/cinotify/healthbot/internal/probe"
	"github.com/cinotify/healthbot/internal/registry"
	"github.com/cinotify/healthbot/internal/report"
	"github.com/cinotify/healthbot/internal/scheduler"
	"github.com/cinotify/healthbot/internal/status"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	endpoints, err := registry.Load(cfg.MonitorConfigPath, cfg.MonitorConfigExplicit, cfg.MonitorURLs)
	if err != nil {
		logger.Fatal("load_monitors_failed", zap.Error(err))
	}
	if len(endpoints) == 0 {
		logger.Warn("no_monitor_endpoints",
			zap.String("hint", "set MONITOR_CONFIG_PATH or MONITOR_URLS"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err := bot.TestConnection(ctx); err != nil {
		logger.Fatal("telegram_connection_failed", zap.Error(err))
	}

	var checker probe.Checker = probe.NewHTTPChecker(cfg.CheckTimeout)
	checker = &probe.Fallback{Inner: checker}

	runner := scheduler.NewRunner(
		logger, endpoints, checker, status.NewTracker(), bot,
		cfg.CheckInterval, cfg.CheckTimeout,
	)

	startup := report.FormatStartup(cfg.CheckInterval, len(endpoints))
	if err := bot.SendMessage(ctx, startup, notify.ModeMarkdown); err != nil {
		logger.Warn("startup_message_failed", zap.Error(err))
	}

	go runner.Run(ctx)

	api := httpapi.NewServer(logger, runner, bot, &gitlab.Handler{Branches: cfg.MonitoredBranches})
	logger.Info("webhook_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		logger.Fatal("server_failed", zap.Error(err))
	}
}
