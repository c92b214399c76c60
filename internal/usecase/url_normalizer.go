package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shoppingai/backend/internal/domain"
)

const defaultURLScheme = "https"

// NormalizePurchaseURL turns the free-text url of a product into an openable URL.
//
//  1. an absolute URL with scheme and host is used as-is, unless its query
//     carries characters that still need escaping
//  2. a string containing "?" is split into base and query; only key=value pairs
//     with exactly one "=" survive, in their original order
//  3. anything else gets "https://" prepended and its path percent-encoded
//
// Empty input or an unusable result yields domain.ErrInvalidURL.
func NormalizePurchaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrInvalidURL)
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() && u.Host != "" && queryIsEncoded(u.RawQuery) {
		return u, nil
	}

	if base, query, found := strings.Cut(raw, "?"); found {
		return buildWithQuery(base, query)
	}

	return buildFromBare(raw)
}

// queryIsEncoded reports whether a raw query holds only characters that may
// appear unescaped in a URL query
func queryIsEncoded(query string) bool {
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("-._~!$&'()*+,;=:@/?%", c) >= 0:
		default:
			return false
		}
	}
	return true
}

// buildWithQuery reassembles "base?k=v&..." as a structured URL
func buildWithQuery(base, query string) (*url.URL, error) {
	u, err := buildFromBare(base)
	if err != nil {
		return nil, err
	}

	var pairs []string
	for _, pair := range strings.Split(query, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			continue
		}
		pairs = append(pairs, url.QueryEscape(kv[0])+"="+url.QueryEscape(kv[1]))
	}
	u.RawQuery = strings.Join(pairs, "&")

	return u, nil
}

// buildFromBare parses a host[/path] string, adding the default scheme when missing
func buildFromBare(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrInvalidURL)
	}

	scheme := defaultURLScheme
	rest := raw
	if s, r, found := strings.Cut(raw, "://"); found {
		scheme, rest = strings.ToLower(s), r
	}

	host, path, _ := strings.Cut(rest, "/")
	if host == "" {
		return nil, fmt.Errorf("%w: %q has no host", domain.ErrInvalidURL, raw)
	}
	if path != "" {
		path = "/" + path
	}

	// Round-trip through the parser so invalid host characters are rejected
	candidate := (&url.URL{Scheme: scheme, Host: host, Path: path}).String()
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	return u, nil
}
