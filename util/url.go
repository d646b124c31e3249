package util

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrNotAbsoluteURL = errors.New("not an absolute http(s) URL")
)

// ParseAbsoluteURL parses s and requires an absolute http or https URL with a host.
func ParseAbsoluteURL(s string) (*url.URL, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrNotAbsoluteURL
	}
	return parsed, nil
}

// HostHasSuffix reports whether the URL's hostname ends with suffix, ignoring case and
// any port component. A suffix starting with "." also matches the bare apex host, so
// ".example.com" admits both "cdn.example.com" and "example.com".
func HostHasSuffix(u *url.URL, suffix string) bool {
	if suffix == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	suffix = strings.ToLower(suffix)
	return strings.HasSuffix(host, suffix) || host == strings.TrimPrefix(suffix, ".")
}
