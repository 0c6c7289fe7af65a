// Package report renders probe results and status transitions as the
// Markdown messages pushed to the notification chat.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cinotify/healthbot/internal/probe"
	"github.com/cinotify/healthbot/internal/status"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

var divider = strings.Repeat("─", 40)

// FormatSummary renders one probe cycle as a single message. The header
// always carries the timestamp and aggregate counts; per-endpoint detail is
// included when includeAll is set or any endpoint is DOWN.
func FormatSummary(results []probe.Result, includeAll bool) string {
	upCount := 0
	for _, r := range results {
		if r.Up() {
			upCount++
		}
	}
	downCount := len(results) - upCount

	var b strings.Builder
	b.WriteString("🏥 **Health Check Report**\n")
	fmt.Fprintf(&b, "⏰ %s\n", time.Now().UTC().Format(timeLayout))
	b.WriteString(divider + "\n\n")

	if downCount == 0 {
		fmt.Fprintf(&b, "✅ All services are UP (%d/%d)\n\n", upCount, len(results))
	} else {
		fmt.Fprintf(&b, "⚠️ %d service(s) DOWN, %d UP\n\n", downCount, upCount)
	}

	if includeAll || downCount > 0 {
		for _, r := range results {
			if r.Up() {
				fmt.Fprintf(&b, "✅ **%s**\n", r.Endpoint.DisplayName())
				fmt.Fprintf(&b, "   Status: %s (%.2fs)\n", r.Status, r.ResponseTime.Seconds())
			} else {
				fmt.Fprintf(&b, "❌ **%s**\n", r.Endpoint.DisplayName())
				fmt.Fprintf(&b, "   Status: %s\n", r.Status)
				fmt.Fprintf(&b, "   Error: %s\n", errText(r.Err, "Unknown error"))
			}
			fmt.Fprintf(&b, "   URL: %s\n\n", r.Endpoint.URL)
		}
	}
	return b.String()
}

// FormatStartup renders the boot announcement listing the webhook routes.
// The interval is reported in whole seconds.
func FormatStartup(interval time.Duration, endpoints int) string {
	return fmt.Sprintf(
		"🤖 **CI/CD Notification Bot Started**\n\n"+
			"✅ Deployment endpoint: `/notify/deployment`\n"+
			"✅ Custom message endpoint: `/notify/message`\n"+
			"✅ Test endpoint: `/webhook/test`\n"+
			"✅ Health checks: Every %ds\n"+
			"✅ Monitoring %d endpoint(s)",
		int(interval.Seconds()), endpoints,
	)
}

// FormatAlert renders status transitions. ok is false when there is nothing
// to alert on; callers must not send an empty message in that case.
func FormatAlert(changes []status.Transition) (msg string, ok bool) {
	if len(changes) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("🚨 **Service Status Alert**\n")
	fmt.Fprintf(&b, "⏰ %s\n", time.Now().UTC().Format(timeLayout))
	b.WriteString(divider + "\n\n")

	for _, c := range changes {
		if c.Current == probe.StatusUp {
			fmt.Fprintf(&b, "✅ **%s** is now UP\n", c.DisplayName)
			fmt.Fprintf(&b, "   Previous: %s → Current: %s\n", c.Previous, c.Current)
		} else {
			fmt.Fprintf(&b, "❌ **%s** is now DOWN\n", c.DisplayName)
			fmt.Fprintf(&b, "   Previous: %s → Current: %s\n", c.Previous, c.Current)
			fmt.Fprintf(&b, "   Error: %s\n", errText(c.Result.Err, "Unknown"))
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", c.URL)
	}
	return b.String(), true
}

func errText(err, fallback string) string {
	if err == "" {
		return fallback
	}
	return err
}
