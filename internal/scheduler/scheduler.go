package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cinotify/healthbot/internal/notify"
	"github.com/cinotify/healthbot/internal/probe"
	"github.com/cinotify/healthbot/internal/registry"
	"github.com/cinotify/healthbot/internal/report"
	"github.com/cinotify/healthbot/internal/status"
)

// Runner drives probe cycles: probe every endpoint in registry order, diff
// against last-known status, alert on transitions, then send the full report.
type Runner struct {
	Logger    *zap.Logger
	Endpoints []registry.Endpoint
	Checker   probe.Checker
	Tracker   *status.Tracker
	Notifier  notify.Notifier
	Interval  time.Duration
	Timeout   time.Duration

	mu sync.Mutex // at most one pass in flight; the tracker has a single writer
}

func NewRunner(
	logger *zap.Logger,
	endpoints []registry.Endpoint,
	checker probe.Checker,
	tracker *status.Tracker,
	notifier notify.Notifier,
	interval time.Duration,
	timeout time.Duration,
) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{
		Logger:    logger,
		Endpoints: endpoints,
		Checker:   checker,
		Tracker:   tracker,
		Notifier:  notifier,
		Interval:  interval,
		Timeout:   timeout,
	}
}

// Run starts the loop: an immediate pass, then one per tick. Stops when ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context) {
	if r.Interval <= 0 || len(r.Endpoints) == 0 {
		r.Logger.Warn("health_checks_disabled", zap.Int("endpoints", len(r.Endpoints)))
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

// CheckAll probes every endpoint once, sequentially in registry order, and
// returns the results without touching the tracker: manual passes never
// advance transition state.
func (r *Runner) CheckAll(ctx context.Context) []probe.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkAll(ctx)
}

func (r *Runner) checkAll(ctx context.Context) []probe.Result {
	results := make([]probe.Result, 0, len(r.Endpoints))
	for _, ep := range r.Endpoints {
		cctx, cancel := context.WithTimeout(ctx, r.Timeout)
		res := r.Checker.Check(cctx, ep)
		cancel()

		if res.Up() {
			r.Logger.Debug("endpoint_up",
				zap.String("name", ep.DisplayName()),
				zap.String("url", ep.URL),
				zap.Int("status_code", res.StatusCode),
				zap.Duration("response_time", res.ResponseTime),
			)
		} else {
			fields := []zap.Field{
				zap.String("name", ep.DisplayName()),
				zap.String("url", ep.URL),
				zap.Int("status_code", res.StatusCode),
				zap.String("error", res.Err),
			}
			if res.Err == probe.ErrConnection {
				fields = append(fields, zap.String("dns_class", probe.ClassifyDNS(ep.URL)))
			}
			r.Logger.Error("endpoint_down", fields...)
		}
		results = append(results, res)
	}
	return results
}

// runOnce is one scheduled cycle. Send failures are logged and swallowed;
// they never affect tracker state or scheduling.
func (r *Runner) runOnce(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := r.checkAll(ctx)
	changes := r.Tracker.RecordAndDiff(results)

	if msg, ok := report.FormatAlert(changes); ok {
		if err := notify.SendAlert(ctx, r.Notifier, msg); err != nil {
			r.Logger.Warn("alert_send_failed", zap.Error(err))
		}
	}

	summary := report.FormatSummary(results, true)
	if err := notify.SendReport(ctx, r.Notifier, summary); err != nil {
		r.Logger.Warn("report_send_failed", zap.Error(err))
	}

	up := 0
	for _, res := range results {
		if res.Up() {
			up++
		}
	}
	r.Logger.Info("health_check_complete",
		zap.Int("up", up),
		zap.Int("total", len(results)),
		zap.Int("transitions", len(changes)),
	)
}
