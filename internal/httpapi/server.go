package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cinotify/healthbot/internal/gitlab"
	"github.com/cinotify/healthbot/internal/notify"
	"github.com/cinotify/healthbot/internal/probe"
	"github.com/cinotify/healthbot/internal/report"
	"github.com/cinotify/healthbot/internal/scheduler"
)

type Server struct {
	Logger   *zap.Logger
	Runner   *scheduler.Runner
	Notifier notify.Notifier
	GitLab   *gitlab.Handler
}

func NewServer(l *zap.Logger, r *scheduler.Runner, n notify.Notifier, gl *gitlab.Handler) *Server {
	return &Server{Logger: l, Runner: r, Notifier: n, GitLab: gl}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", s.handleHealth)
	r.Get("/check-health", s.handleCheckHealth)
	r.Post("/notify/deployment", s.handleDeployment)
	r.Post("/notify/message", s.handleMessage)
	r.Post("/webhook/test", s.handleTestWebhook)
	r.Post("/webhook/gitlab", s.handleGitLab)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"bot":     "healthbot",
		"version": "1.0.0",
	})
}

// resultJSON is the wire shape of one probe result; response_time is seconds.
type resultJSON struct {
	Name         string       `json:"name"`
	DisplayName  string       `json:"display_name"`
	URL          string       `json:"url"`
	Status       probe.Status `json:"status"`
	StatusCode   int          `json:"status_code,omitempty"`
	ResponseTime float64      `json:"response_time,omitempty"`
	Error        string       `json:"error,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

func toResultJSON(results []probe.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, resultJSON{
			Name:         r.Endpoint.Name,
			DisplayName:  r.Endpoint.DisplayName(),
			URL:          r.Endpoint.URL,
			Status:       r.Status,
			StatusCode:   r.StatusCode,
			ResponseTime: r.ResponseTime.Seconds(),
			Error:        r.Err,
			Timestamp:    r.CheckedAt,
		})
	}
	return out
}

// handleCheckHealth runs one probe pass synchronously, pushes the report to
// the chat, and returns the raw results. It never advances transition state.
func (s *Server) handleCheckHealth(w http.ResponseWriter, r *http.Request) {
	results := s.Runner.CheckAll(r.Context())

	summary := report.FormatSummary(results, true)
	if err := notify.SendReport(r.Context(), s.Notifier, summary); err != nil {
		s.Logger.Warn("manual_report_send_failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"results": toResultJSON(results),
	})
}

type deploymentPayload struct {
	Project       string `json:"project"`
	Branch        string `json:"branch"`
	Environment   string `json:"environment"`
	Status        string `json:"status"`
	User          string `json:"user"`
	PipelineURL   string `json:"pipeline_url"`
	CommitSHA     string `json:"commit_sha"`
	CommitMessage string `json:"commit_message"`
}

func (s *Server) handleDeployment(w http.ResponseWriter, r *http.Request) {
	var p deploymentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.Notifier.SendMessage(r.Context(), formatDeployment(p), notify.ModeMarkdown); err != nil {
		s.Logger.Warn("deployment_send_failed", zap.Error(err))
	} else {
		s.Logger.Info("deployment_notification_sent",
			zap.String("project", p.Project),
			zap.String("environment", p.Environment),
		)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Deployment notification sent",
	})
}

func formatDeployment(p deploymentPayload) string {
	if p.Project == "" {
		p.Project = "Unknown Project"
	}
	if p.Branch == "" {
		p.Branch = "unknown"
	}
	if p.Environment == "" {
		p.Environment = "Unknown"
	}
	if p.User == "" {
		p.User = "Unknown"
	}

	var emoji, text string
	switch strings.ToLower(p.Status) {
	case "success":
		emoji, text = "✅", "SUCCESSFUL"
	case "failed":
		emoji, text = "❌", "FAILED"
	case "running":
		emoji, text = "🔄", "IN PROGRESS"
	case "":
		emoji, text = "⚠️", "UNKNOWN"
	default:
		emoji, text = "⚠️", strings.ToUpper(p.Status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s **Deployment %s**\n\n", emoji, text)
	fmt.Fprintf(&b, "📦 Project: **%s**\n", p.Project)
	fmt.Fprintf(&b, "🎯 Environment: **%s**\n", p.Environment)
	fmt.Fprintf(&b, "🌿 Branch: `%s`\n", p.Branch)
	fmt.Fprintf(&b, "👤 By: %s\n", p.User)

	if p.CommitSHA != "" {
		fmt.Fprintf(&b, "📌 Commit: `%s`\n", gitlab.ShortSHA(p.CommitSHA))
	}
	if p.CommitMessage != "" {
		fmt.Fprintf(&b, "💬 %s\n", gitlab.FirstLine(p.CommitMessage, 100))
	}
	if p.PipelineURL != "" {
		fmt.Fprintf(&b, "\n🔗 [View Pipeline](%s)", p.PipelineURL)
	}
	return b.String()
}

type messagePayload struct {
	Message   string `json:"message"`
	ParseMode string `json:"parse_mode"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var p messagePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.Message == "" {
		writeError(w, http.StatusBadRequest, errors.New("message field is required"))
		return
	}
	if p.ParseMode == "" {
		p.ParseMode = notify.ModeMarkdown
	}

	if err := s.Notifier.SendMessage(r.Context(), p.Message, p.ParseMode); err != nil {
		s.Logger.Warn("custom_message_send_failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Message sent",
	})
}

func (s *Server) handleTestWebhook(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Message string `json:"message"`
	}
	// body is optional here; a bare POST still sends the default text
	_ = json.NewDecoder(r.Body).Decode(&p)
	if p.Message == "" {
		p.Message = "Test webhook received!"
	}

	if err := s.Notifier.SendMessage(r.Context(), "🧪 **Test Webhook**\n\n"+p.Message, notify.ModeMarkdown); err != nil {
		s.Logger.Warn("test_webhook_send_failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Test notification sent",
	})
}

func (s *Server) handleGitLab(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var msg string
	switch event := r.Header.Get("X-Gitlab-Event"); event {
	case "Merge Request Hook":
		ev, err := s.GitLab.ParseMergeRequest(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if ev == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}
		msg = gitlab.FormatMerge(ev)
	case "Push Hook":
		ev, err := s.GitLab.ParsePush(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if ev == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}
		msg = gitlab.FormatPush(ev)
	default:
		s.Logger.Info("gitlab_event_ignored", zap.String("event", event))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := s.Notifier.SendMessage(r.Context(), msg, notify.ModeMarkdown); err != nil {
		s.Logger.Warn("gitlab_send_failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
