package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNS classes logged alongside connection failures so operators can tell a
// dead host from a dead name.
const (
	DNSResolves          = "RESOLVES"
	DNSNXDomain          = "NXDOMAIN"
	DNSNoARecord         = "NO_A_RECORD"
	DNSServfailOrTimeout = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName       = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// ClassifyDNS resolves the host of target with the OS resolver and returns a
// coarse class. Best effort only; never used to decide UP or DOWN.
func ClassifyDNS(target string) string {
	host := hostOf(target)
	if host == "" || strings.Contains(host, "://") {
		return DNSInvalidName
	}

	ctx, cancel := context.WithTimeout(context.Background(), dnsTimeout)
	defer cancel()
	r := &net.Resolver{}

	ips, err := r.LookupIP(ctx, "ip", host)
	if err == nil && len(ips) > 0 {
		return DNSResolves
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		if de.IsNotFound {
			if ns, nsErr := r.LookupNS(ctx, host); nsErr == nil && len(ns) > 0 {
				return DNSNoARecord
			}
			return DNSNXDomain
		}
	}
	return DNSServfailOrTimeout
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(raw)
	}
	return u.Hostname()
}
