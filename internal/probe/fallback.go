package probe

import (
	"context"

	"github.com/cinotify/healthbot/internal/registry"
)

// Fallback tries the endpoint's primary URL and then each alternate in order;
// the first UP wins, otherwise the last DOWN result is returned. Results keep
// the primary endpoint so status identity stays with the registry entry.
type Fallback struct {
	Inner Checker
}

func (f *Fallback) Check(ctx context.Context, ep registry.Endpoint) Result {
	last := f.Inner.Check(ctx, ep)
	if last.Up() || len(ep.FallbackURLs) == 0 {
		return last
	}
	for _, alt := range ep.FallbackURLs {
		candidate := ep
		candidate.URL = alt
		last = f.Inner.Check(ctx, candidate)
		last.Endpoint = ep
		if last.Up() {
			return last
		}
	}
	return last
}
