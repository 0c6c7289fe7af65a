package probe

import (
	"context"
	"testing"

	"github.com/cinotify/healthbot/internal/registry"
)

// scripted checker keyed by URL
type scriptedChecker struct {
	byURL map[string]Result
	calls []string
}

func (f *scriptedChecker) Check(_ context.Context, ep registry.Endpoint) Result {
	f.calls = append(f.calls, ep.URL)
	r, ok := f.byURL[ep.URL]
	if !ok {
		return Result{Endpoint: ep, Status: StatusDown, Err: "Connection Error"}
	}
	r.Endpoint = ep
	return r
}

func TestFallback_FirstUpWins(t *testing.T) {
	ep := registry.Endpoint{
		URL:          "https://a",
		FallbackURLs: []string{"https://b", "https://c"},
	}
	inner := &scriptedChecker{byURL: map[string]Result{
		"https://a": {Status: StatusDown, Err: "HTTP 503"},
		"https://b": {Status: StatusUp, StatusCode: 200},
		"https://c": {Status: StatusUp, StatusCode: 200},
	}}
	f := &Fallback{Inner: inner}

	out := f.Check(context.Background(), ep)
	if !out.Up() {
		t.Fatalf("want UP from alternate, got %+v", out)
	}
	if out.Endpoint.URL != "https://a" {
		t.Fatalf("result must keep the primary endpoint identity, got %q", out.Endpoint.URL)
	}
	if len(inner.calls) != 2 {
		t.Fatalf("want early exit after first UP, calls: %v", inner.calls)
	}
}

func TestFallback_AllDownReturnsLast(t *testing.T) {
	ep := registry.Endpoint{
		URL:          "https://a",
		FallbackURLs: []string{"https://b"},
	}
	inner := &scriptedChecker{byURL: map[string]Result{
		"https://a": {Status: StatusDown, Err: "HTTP 503"},
		"https://b": {Status: StatusDown, Err: "Timeout"},
	}}
	f := &Fallback{Inner: inner}

	out := f.Check(context.Background(), ep)
	if out.Up() {
		t.Fatalf("want DOWN, got %+v", out)
	}
	if out.Err != "Timeout" {
		t.Fatalf("want last failure returned, got %q", out.Err)
	}
}

func TestFallback_NoAlternatesSingleCall(t *testing.T) {
	ep := registry.Endpoint{URL: "https://a"}
	inner := &scriptedChecker{byURL: map[string]Result{
		"https://a": {Status: StatusDown, Err: "HTTP 500"},
	}}
	f := &Fallback{Inner: inner}

	out := f.Check(context.Background(), ep)
	if out.Up() || out.Err != "HTTP 500" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if len(inner.calls) != 1 {
		t.Fatalf("want a single probe, calls: %v", inner.calls)
	}
}
