// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	configPath := strings.TrimSpace(os.Getenv("MONITOR_CONFIG_PATH"))
	urls := strings.TrimSpace(os.Getenv("MONITOR_URLS"))
	interval := strings.TrimSpace(os.Getenv("HEALTH_CHECK_INTERVAL"))

	if token == "" {
		fail("TELEGRAM_BOT_TOKEN is empty (the bot cannot send anything).")
	}
	if chat == "" {
		fail("TELEGRAM_CHAT_ID is empty (no destination chat).")
	}
	ok("telegram credentials present")

	switch {
	case configPath != "":
		if _, err := os.Stat(configPath); err != nil {
			fail("MONITOR_CONFIG_PATH points to " + configPath + " but the file is not readable.")
		}
		ok("MONITOR_CONFIG_PATH=" + configPath)
	case urls != "":
		if strings.Contains(urls, " ") {
			warn("MONITOR_URLS contains spaces; use comma-separated with no spaces, e.g. url1,url2")
		}
		ok(fmt.Sprintf("MONITOR_URLS has %d entries", len(strings.Split(urls, ","))))
	default:
		warn("Neither MONITOR_CONFIG_PATH nor MONITOR_URLS set — health checks will be disabled.")
	}

	if interval == "" {
		warn("HEALTH_CHECK_INTERVAL empty; default of 300s will be used.")
	}

	ok("preflight passed")
}
