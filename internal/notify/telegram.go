package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Telegram sends messages through the Bot API to a single chat.
type Telegram struct {
	BaseURL string
	ChatID  string
	Client  *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	if token == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		BaseURL: "https://api.telegram.org/bot" + token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessagePayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (t *Telegram) SendMessage(ctx context.Context, text, parseMode string) error {
	if t == nil || t.BaseURL == "" {
		return errors.New("telegram disabled")
	}
	if parseMode == "" {
		parseMode = ModeMarkdown
	}
	body, _ := json.Marshal(sendMessagePayload{
		ChatID:                t.ChatID,
		Text:                  text,
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram sendMessage: HTTP %d", resp.StatusCode)
	}
	return nil
}

// TestConnection verifies the bot token with getMe and sends a test message
// to the chat, so a bad chat id also fails at startup.
func (t *Telegram) TestConnection(ctx context.Context) error {
	if t == nil || t.BaseURL == "" {
		return errors.New("telegram disabled")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"/getMe", nil)
	if err != nil {
		return err
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram getMe: HTTP %d", resp.StatusCode)
	}
	return t.SendMessage(ctx, "✅ Bot connection test successful!", ModeMarkdown)
}
