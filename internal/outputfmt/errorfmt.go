package outputfmt

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	absoluteURLInTextRE = regexp.MustCompile(`https?://[^\s"'<>]+`)
	// Bot API tokens look like "123456789:AA..." and travel in the URL path.
	botTokenPathRE = regexp.MustCompile(`/bot\d+:[A-Za-z0-9_-]+`)
)

// SanitizeErrorText strips URL hosts and masks credentials (Bot API path
// tokens and sensitive query values) in arbitrary error text.
func SanitizeErrorText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = absoluteURLInTextRE.ReplaceAllStringFunc(raw, sanitizeURLInText)
	return botTokenPathRE.ReplaceAllString(raw, "/bot[redacted]")
}

// SanitizeError wraps err so that Error() is sanitized while errors.Is and
// errors.As still see the wrapped chain.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	return &sanitizedError{text: SanitizeErrorText(err.Error()), err: err}
}

type sanitizedError struct {
	text string
	err  error
}

func (e *sanitizedError) Error() string { return e.text }
func (e *sanitizedError) Unwrap() error { return e.err }

func sanitizeURLInText(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if q := redactSensitiveQuery(u.Query()); q != "" {
		path += "?" + q
	}
	if frag := strings.TrimSpace(u.EscapedFragment()); frag != "" {
		path += "#" + frag
	}
	return path
}

func redactSensitiveQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	for k := range q {
		if isSensitiveQueryKey(k) {
			q.Set(k, "[redacted]")
		}
	}
	return q.Encode()
}

func isSensitiveQueryKey(key string) bool {
	n := strings.ToLower(strings.TrimSpace(key))
	n = strings.NewReplacer("-", "", "_", "").Replace(n)
	if n == "" {
		return false
	}
	if n == "key" {
		return true
	}
	for _, needle := range []string{"apikey", "authorization", "token", "secret", "password"} {
		if strings.Contains(n, needle) {
			return true
		}
	}
	return false
}
