package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Query parameters that carry click tracking rather than job identity.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
	"ref":     true,
}

func isTrackingParam(key string) bool {
	return trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_")
}

// CanonicalURL rewrites a job link into its canonical form: lower-cased
// scheme and host, no fragment, tracking parameters dropped, remaining query
// re-encoded in sorted key order. Two links to the same posting canonicalize
// to the same string, which is what the catalogue keys on.
func CanonicalURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty url")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	query := u.Query()
	for key := range query {
		if isTrackingParam(key) {
			query.Del(key)
		}
	}
	u.RawQuery = query.Encode()

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String(), nil
}
