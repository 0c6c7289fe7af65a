// Package gitlab parses GitLab webhook payloads and formats the chat
// notifications for them. Only completed merges and pushes to monitored
// branches are forwarded; everything else parses to nil.
package gitlab

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

var divider = strings.Repeat("─", 40)

type Handler struct {
	Branches []string // target branches worth notifying about
}

// MergeEvent is a merge request that finished merging into a monitored branch.
type MergeEvent struct {
	Title          string
	Description    string
	SourceBranch   string
	TargetBranch   string
	Author         string
	AuthorUsername string
	MergeCommitSHA string
	URL            string
	ProjectName    string
	ProjectURL     string
	IID            int
}

// PushEvent is a direct push to a monitored branch.
type PushEvent struct {
	Branch      string
	User        string
	Username    string
	ProjectName string
	ProjectURL  string
	CommitCount int
	Commits     []Commit
	CompareURL  string
}

type Commit struct {
	ID      string
	Message string
	Author  string
}

type mergeRequestPayload struct {
	ObjectAttributes struct {
		Action         string `json:"action"`
		State          string `json:"state"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		SourceBranch   string `json:"source_branch"`
		TargetBranch   string `json:"target_branch"`
		MergeCommitSHA string `json:"merge_commit_sha"`
		URL            string `json:"url"`
		IID            int    `json:"iid"`
	} `json:"object_attributes"`
	User struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
	Project struct {
		Name   string `json:"name"`
		WebURL string `json:"web_url"`
	} `json:"project"`
}

type pushPayload struct {
	Ref               string `json:"ref"`
	Before            string `json:"before"`
	After             string `json:"after"`
	UserName          string `json:"user_name"`
	UserUsername      string `json:"user_username"`
	TotalCommitsCount int    `json:"total_commits_count"`
	Project           struct {
		Name   string `json:"name"`
		WebURL string `json:"web_url"`
	} `json:"project"`
	Commits []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commits"`
}

func (h *Handler) monitored(branch string) bool {
	for _, b := range h.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// ParseMergeRequest returns nil for events that are not a completed merge
// into a monitored branch.
func (h *Handler) ParseMergeRequest(body []byte) (*MergeEvent, error) {
	var p mergeRequestPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("merge request payload: %w", err)
	}
	oa := p.ObjectAttributes
	if oa.Action != "merge" && oa.State != "merged" {
		return nil, nil
	}
	if !h.monitored(oa.TargetBranch) {
		return nil, nil
	}
	return &MergeEvent{
		Title:          oa.Title,
		Description:    oa.Description,
		SourceBranch:   oa.SourceBranch,
		TargetBranch:   oa.TargetBranch,
		Author:         p.User.Name,
		AuthorUsername: p.User.Username,
		MergeCommitSHA: oa.MergeCommitSHA,
		URL:            oa.URL,
		ProjectName:    p.Project.Name,
		ProjectURL:     p.Project.WebURL,
		IID:            oa.IID,
	}, nil
}

// ParsePush returns nil for pushes to unmonitored branches and for branch
// deletions (zero commits).
func (h *Handler) ParsePush(body []byte) (*PushEvent, error) {
	var p pushPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("push payload: %w", err)
	}
	branch := strings.TrimPrefix(p.Ref, "refs/heads/")
	if !h.monitored(branch) {
		return nil, nil
	}
	if p.TotalCommitsCount == 0 {
		return nil, nil
	}

	commits := make([]Commit, 0, 5)
	for i, c := range p.Commits {
		if i == 5 {
			break
		}
		commits = append(commits, Commit{ID: c.ID, Message: c.Message, Author: c.Author.Name})
	}

	return &PushEvent{
		Branch:      branch,
		User:        p.UserName,
		Username:    p.UserUsername,
		ProjectName: p.Project.Name,
		ProjectURL:  p.Project.WebURL,
		CommitCount: len(p.Commits),
		Commits:     commits,
		CompareURL:  fmt.Sprintf("%s/compare/%s...%s", p.Project.WebURL, p.Before, p.After),
	}, nil
}

// FormatMerge renders a merge event as a chat message.
func FormatMerge(ev *MergeEvent) string {
	var b strings.Builder
	b.WriteString("🔀 **Merge Request Completed**\n")
	fmt.Fprintf(&b, "⏰ %s\n", time.Now().UTC().Format(timeLayout))
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "📋 **%s**\n", ev.Title)
	fmt.Fprintf(&b, "🔗 [MR !%d](%s)\n\n", ev.IID, ev.URL)

	fmt.Fprintf(&b, "📦 Project: **%s**\n", ev.ProjectName)
	fmt.Fprintf(&b, "🌿 `%s` → `%s`\n", ev.SourceBranch, ev.TargetBranch)
	fmt.Fprintf(&b, "👤 Merged by: %s (@%s)\n", ev.Author, ev.AuthorUsername)

	if ev.MergeCommitSHA != "" {
		fmt.Fprintf(&b, "📌 Commit: `%s`\n", ShortSHA(ev.MergeCommitSHA))
	}
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n💬 %s\n", truncate(ev.Description, 200))
	}

	branch := strings.ToLower(ev.TargetBranch)
	switch {
	case ev.TargetBranch == "main":
		b.WriteString("\n🚀 **Production deployment may be triggered**")
	case strings.Contains(branch, "prod"):
		b.WriteString("\n🔶 **Pre-production deployment may be triggered**")
	case strings.Contains(branch, "dev"):
		b.WriteString("\n🧪 **Development deployment may be triggered**")
	}
	return b.String()
}

// FormatPush renders a push event as a chat message.
func FormatPush(ev *PushEvent) string {
	var b strings.Builder
	b.WriteString("📤 **Direct Push to Protected Branch**\n")
	fmt.Fprintf(&b, "⏰ %s\n", time.Now().UTC().Format(timeLayout))
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "📦 Project: **%s**\n", ev.ProjectName)
	fmt.Fprintf(&b, "🌿 Branch: `%s`\n", ev.Branch)
	fmt.Fprintf(&b, "👤 Pushed by: %s (@%s)\n", ev.User, ev.Username)
	fmt.Fprintf(&b, "📊 Commits: %d\n\n", ev.CommitCount)

	if len(ev.Commits) > 0 {
		b.WriteString("**Recent commits:**\n")
		for _, c := range ev.Commits {
			fmt.Fprintf(&b, "• `%s` %s - %s\n", ShortSHA(c.ID), FirstLine(c.Message, 60), c.Author)
		}
	}
	if ev.CompareURL != "" {
		fmt.Fprintf(&b, "\n🔗 [View changes](%s)\n", ev.CompareURL)
	}
	return b.String()
}

// ShortSHA truncates a commit SHA to the 8 characters shown in messages.
func ShortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// FirstLine returns the first line of s capped at max runes.
func FirstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
