package registry

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Endpoint is one monitored HTTP target. Endpoints are built once at startup
// and never mutated afterwards.
type Endpoint struct {
	Name           string
	URL            string
	Method         string
	ExpectedStatus int
	Env            string
	Surface        string
	Description    string
	FallbackURLs   []string
}

// DisplayName is the operator-facing label: the configured name, else the
// environment label, with the surface appended in parentheses when set.
func (e Endpoint) DisplayName() string {
	base := e.Name
	if base == "" {
		base = e.Env
	}
	if base == "" {
		base = e.URL
	}
	if e.Surface != "" {
		return base + " (" + e.Surface + ")"
	}
	return base
}

type monitorFile struct {
	Monitors []monitorEntry `yaml:"monitors"`
}

type monitorEntry struct {
	Name           string   `yaml:"name"`
	Env            string   `yaml:"env"`
	Surface        string   `yaml:"surface"`
	Method         string   `yaml:"method"`
	ExpectedStatus any      `yaml:"expected_status"`
	URL            string   `yaml:"url"`
	Description    string   `yaml:"description"`
	FallbackURLs   []string `yaml:"fallback_urls"`
}

// Load builds the endpoint list from the YAML monitor file at path. When the
// file is absent (and explicit is false) or parses to zero monitors, each URL
// in urls becomes a minimal GET/200 endpoint instead; when explicit is true a
// missing or unparsable file is an error. Entry order is preserved.
func Load(path string, explicit bool, urls []string) ([]Endpoint, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		endpoints, err := fromYAML(path, data)
		if err != nil {
			return nil, err
		}
		if len(endpoints) > 0 {
			return endpoints, nil
		}
		// empty or placeholder file: fall back to the URL list
	} else if explicit {
		return nil, fmt.Errorf("monitor config %s: %w", path, err)
	}

	var endpoints []Endpoint
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{
			URL:            u,
			Method:         "GET",
			ExpectedStatus: 200,
			Env:            EnvLabel(u),
		})
	}
	return endpoints, nil
}

func fromYAML(path string, data []byte) ([]Endpoint, error) {
	var file monitorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse monitor config %s: %w", path, err)
	}

	var endpoints []Endpoint
	for i, entry := range file.Monitors {
		u := strings.TrimSpace(entry.URL)
		if u == "" {
			continue
		}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = fmt.Sprintf("Monitor-%d", i+1)
		}

		env := strings.TrimSpace(entry.Env)
		if env == "" {
			env = EnvLabel(u)
		}

		method := strings.ToUpper(strings.TrimSpace(entry.Method))
		if method == "" {
			method = "GET"
		}

		endpoints = append(endpoints, Endpoint{
			Name:           name,
			URL:            u,
			Method:         method,
			ExpectedStatus: coerceStatus(entry.ExpectedStatus),
			Env:            env,
			Surface:        SurfaceLabel(entry.Surface),
			Description:    strings.TrimSpace(entry.Description),
			FallbackURLs:   entry.FallbackURLs,
		})
	}
	return endpoints, nil
}

// EnvLabel infers an environment label from substrings of the URL. URLs that
// match nothing keep the raw URL as their label.
func EnvLabel(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "dev"):
		return "Development"
	case strings.Contains(lower, "preprod"), strings.Contains(lower, "pre-prod"):
		return "Pre-Production"
	case strings.Contains(lower, "prod"):
		return "Production"
	}
	return url
}

// SurfaceLabel normalizes a configured surface into its display form.
func SurfaceLabel(surface string) string {
	surface = strings.TrimSpace(surface)
	if surface == "" {
		return ""
	}
	switch strings.ToLower(strings.ReplaceAll(surface, "_", "-")) {
	case "frontdoor", "front-door":
		return "Front Door"
	case "vm", "virtual-machine":
		return "VM"
	}
	return title(surface)
}

// coerceStatus accepts whatever scalar the YAML held and falls back to 200
// for anything that is not a plausible HTTP status.
func coerceStatus(v any) int {
	switch n := v.(type) {
	case int:
		if n >= 100 && n <= 599 {
			return n
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && parsed >= 100 && parsed <= 599 {
			return parsed
		}
	case float64:
		if n >= 100 && n <= 599 {
			return int(n)
		}
	}
	return 200
}

func title(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if prevLetter {
				out[i] = unicode.ToLower(r)
			} else {
				out[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(out)
}
