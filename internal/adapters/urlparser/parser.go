package urlparser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/assess-cli/internal/domain"
)

var (
	errEmptyURL      = errors.New("url is empty")
	errMissingScheme = errors.New("url has no scheme")
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

var _ domain.URLEquivalence = AreURLsEqual

// AreURLsEqual compares two URLs after normalization. Inputs that do not
// parse as absolute URLs fall back to trimmed literal comparison.
func AreURLsEqual(a, b string) bool {
	normalizedA, errA := Normalize(a)
	normalizedB, errB := Normalize(b)
	if errA != nil || errB != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}

	return normalizedA == normalizedB
}

// Normalize lowercases scheme and host, drops default ports, the fragment and
// trailing slashes. Percent-escapes of unreserved characters are decoded and
// other escapes are uppercased, so an escaped reserved character such as %2F
// or %26 stays distinct from its literal form.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errEmptyURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme == "" {
		return "", errMissingScheme
	}

	scheme := strings.ToLower(parsed.Scheme)
	if parsed.Opaque != "" {
		return scheme + ":" + parsed.Opaque, nil
	}

	host := strings.ToLower(parsed.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := parsed.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if parsed.User != nil {
		b.WriteString(parsed.User.String())
		b.WriteString("@")
	}
	b.WriteString(host)
	b.WriteString(strings.TrimRight(normalizeEscapes(parsed.EscapedPath()), "/"))
	if parsed.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(normalizeQuery(parsed.RawQuery))
	}

	return b.String(), nil
}

// normalizeQuery re-encodes each key and value on its own, keeping parameter
// order and the & and = separators as written.
func normalizeQuery(raw string) string {
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, value, hasValue := strings.Cut(pair, "=")
		pairs[i] = reescapeQuery(key)
		if hasValue {
			pairs[i] += "=" + reescapeQuery(value)
		}
	}

	return strings.Join(pairs, "&")
}

func reescapeQuery(component string) string {
	decoded, err := url.QueryUnescape(component)
	if err != nil {
		return component
	}

	return url.QueryEscape(decoded)
}

func normalizeEscapes(escaped string) string {
	if !strings.Contains(escaped, "%") {
		return escaped
	}

	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '%' && i+2 < len(escaped) && isHex(escaped[i+1]) && isHex(escaped[i+2]) {
			c := unhex(escaped[i+1])<<4 | unhex(escaped[i+2])
			if isUnreserved(c) {
				b.WriteByte(c)
			} else {
				b.WriteByte('%')
				b.WriteString(strings.ToUpper(escaped[i+1 : i+3]))
			}
			i += 2
			continue
		}
		b.WriteByte(escaped[i])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
