package notify

import "context"

const ModeMarkdown = "Markdown"

// Notifier delivers one text message to the configured sink.
type Notifier interface {
	SendMessage(ctx context.Context, text, parseMode string) error
}

// SendReport delivers a health report.
func SendReport(ctx context.Context, n Notifier, report string) error {
	return n.SendMessage(ctx, report, ModeMarkdown)
}

// SendAlert delivers a status alert under the alert banner.
func SendAlert(ctx context.Context, n Notifier, alert string) error {
	return n.SendMessage(ctx, "🚨 **ALERT**\n\n"+alert, ModeMarkdown)
}
