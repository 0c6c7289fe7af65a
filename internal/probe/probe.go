package probe

import (
	"context"
	"time"

	"github.com/cinotify/healthbot/internal/registry"
)

// Status is the boolean health outcome of a probe, rendered with the labels
// operators see in reports.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// Result is the outcome of one probe of one endpoint. Exactly one of
// ResponseTime (UP) or Err (DOWN) is meaningful; StatusCode is zero when the
// request never produced a response.
type Result struct {
	Endpoint     registry.Endpoint
	Status       Status
	StatusCode   int
	ResponseTime time.Duration
	Err          string
	CheckedAt    time.Time
}

func (r Result) Up() bool { return r.Status == StatusUp }

// Checker performs a single check of one endpoint.
type Checker interface {
	Check(ctx context.Context, ep registry.Endpoint) Result
}
