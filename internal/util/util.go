package util

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

// GetClientIPAddress returns the host part of RemoteAddr, the peer the server
// actually talked to.
func GetClientIPAddress(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}

// TrustedProxies lists the peers allowed to report a client address through
// X-Forwarded-For. The zero value and nil trust nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies reads a comma separated list of IPs and CIDR ranges.
func ParseTrustedProxies(raw string) (*TrustedProxies, error) {
	t := &TrustedProxies{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			t.prefixes = append(t.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		t.prefixes = append(t.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return t, nil
}

func (t *TrustedProxies) trusts(ip string) bool {
	if t == nil {
		return false
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address used for per-client limits. X-Forwarded-For is
// only read when the direct peer is trusted, and then walked from the right so
// entries a client prepends are skipped.
func (t *TrustedProxies) ClientIP(r *http.Request) string {
	peer := GetClientIPAddress(r)
	if !t.trusts(peer) {
		return peer
	}

	forwarded := r.Header.Values("X-Forwarded-For")
	var hops []string
	for _, v := range forwarded {
		hops = append(hops, strings.Split(v, ",")...)
	}
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.trusts(hop) {
			if _, err := netip.ParseAddr(hop); err != nil {
				return peer
			}
			return hop
		}
	}
	return peer
}

var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// IsValidURL accepts absolute http(s) URLs with a host.
func IsValidURL(input string) bool {
	if input == "" {
		return false
	}

	if !urlPattern.MatchString(input) {
		return false
	}

	u, err := url.Parse(input)
	if err != nil {
		return false
	}

	if u.Host == "" {
		return false
	}

	return true
}
