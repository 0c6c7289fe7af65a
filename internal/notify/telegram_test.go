package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testTelegram(baseURL string) *Telegram {
	return &Telegram{BaseURL: baseURL, ChatID: "42", Client: http.DefaultClient}
}

func TestTelegram_SendMessage(t *testing.T) {
	var gotPath string
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	tg := testTelegram(ts.URL)
	if err := tg.SendMessage(context.Background(), "hello", "Markdown"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if gotPath != "/sendMessage" {
		t.Fatalf("want /sendMessage, got %q", gotPath)
	}
	if payload["chat_id"] != "42" || payload["text"] != "hello" || payload["parse_mode"] != "Markdown" {
		t.Fatalf("payload wrong: %+v", payload)
	}
	if payload["disable_web_page_preview"] != true {
		t.Fatalf("web page preview must be disabled: %+v", payload)
	}
}

func TestTelegram_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
	}))
	defer ts.Close()

	tg := testTelegram(ts.URL)
	if err := tg.SendMessage(context.Background(), "x", ""); err == nil {
		t.Fatal("want error on non-2xx")
	}
}

func TestTelegram_DefaultParseMode(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	tg := testTelegram(ts.URL)
	if err := tg.SendMessage(context.Background(), "x", ""); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if payload["parse_mode"] != ModeMarkdown {
		t.Fatalf("want Markdown default, got %v", payload["parse_mode"])
	}
}

func TestTelegram_TestConnection(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	tg := testTelegram(ts.URL)
	if err := tg.TestConnection(context.Background()); err != nil {
		t.Fatalf("test connection err: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/getMe" || paths[1] != "/sendMessage" {
		t.Fatalf("want getMe then a test message, got %v", paths)
	}
}

func TestNewTelegram_MissingCredentials(t *testing.T) {
	if tg := NewTelegram("", "42"); tg != nil {
		t.Fatal("want nil client without token")
	}
	if tg := NewTelegram("token", ""); tg != nil {
		t.Fatal("want nil client without chat id")
	}
}

type captureNotifier struct{ texts []string }

func (c *captureNotifier) SendMessage(_ context.Context, text, _ string) error {
	c.texts = append(c.texts, text)
	return nil
}

func TestSendAlert_PrefixesBanner(t *testing.T) {
	n := &captureNotifier{}
	if err := SendAlert(context.Background(), n, "body"); err != nil {
		t.Fatal(err)
	}
	if len(n.texts) != 1 || n.texts[0] != "🚨 **ALERT**\n\nbody" {
		t.Fatalf("alert banner wrong: %q", n.texts)
	}
}
