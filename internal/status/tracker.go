package status

import (
	"sync"

	"github.com/cinotify/healthbot/internal/probe"
)

// Transition records an endpoint flipping between UP and DOWN across
// consecutive probe cycles.
type Transition struct {
	DisplayName string
	URL         string
	Previous    probe.Status
	Current     probe.Status
	Result      probe.Result
}

// Tracker owns the last-known up/down state per endpoint URL. URL is the
// identity: duplicate registry entries share one slot. State lives only in
// memory and is lost on restart.
type Tracker struct {
	mu   sync.Mutex
	last map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]bool)}
}

// RecordAndDiff compares each result against the last observation for its URL
// and returns one Transition per changed endpoint, in input order. Memory is
// always overwritten, whether or not a transition fired, so it reflects the
// most recent observation even when nobody consumes the transitions. The
// first observation for a URL never produces a transition.
func (t *Tracker) RecordAndDiff(results []probe.Result) []Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []Transition
	for _, r := range results {
		url := r.Endpoint.URL
		up := r.Up()
		prev, seen := t.last[url]
		if seen && prev != up {
			changes = append(changes, Transition{
				DisplayName: r.Endpoint.DisplayName(),
				URL:         url,
				Previous:    statusOf(prev),
				Current:     statusOf(up),
				Result:      r,
			})
		}
		t.last[url] = up
	}
	return changes
}

func statusOf(up bool) probe.Status {
	if up {
		return probe.StatusUp
	}
	return probe.StatusDown
}
