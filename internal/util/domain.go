package util

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/miekg/dns"
)

var ErrBadDomain = errors.New("invalid domain")

// NormalizeDomain tries to extract a bare host from inputs like
// "gdz.ru", "https://gdz.ru", "gdz.ru/path", "HTTP://Math.GDZ.ru:80/".
// The result is lower-cased, has no trailing dot and is a syntactically
// valid domain name.
func NormalizeDomain(in string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(in))
	if s == "" {
		return "", ErrBadDomain
	}

	// no scheme: could still have a path; add http:// for parsing
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", ErrBadDomain
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", ErrBadDomain
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return "", ErrBadDomain
	}
	return host, nil
}
