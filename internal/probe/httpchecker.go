package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cinotify/healthbot/internal/registry"
)

// Labels a probe downgrades transport failures to; everything else keeps the
// raw error text.
const (
	ErrTimeout    = "Timeout"
	ErrConnection = "Connection Error"
)

// HTTPChecker issues one HTTP request per check. Redirects are followed and
// the client timeout bounds the whole request. Never retries.
type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{Client: &http.Client{Timeout: timeout}}
}

func (c *HTTPChecker) Check(ctx context.Context, ep registry.Endpoint) Result {
	res := Result{Endpoint: ep, CheckedAt: time.Now().UTC()}

	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, ep.URL, nil)
	if err != nil {
		res.Status = StatusDown
		res.Err = err.Error()
		return res
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		res.Status = StatusDown
		res.Err = classify(err)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	expected := ep.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}
	if resp.StatusCode == expected {
		res.Status = StatusUp
		res.ResponseTime = elapsed
	} else {
		res.Status = StatusDown
		res.Err = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return res
}

// classify maps transport failures onto the operator-facing labels. Timeouts
// are checked before connection failures: a deadline hit mid-dial is still a
// timeout.
func classify(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	var certErr *tls.CertificateVerificationError
	var recErr tls.RecordHeaderError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) ||
		errors.As(err, &certErr) || errors.As(err, &recErr) {
		return ErrConnection
	}
	return err.Error()
}
