package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxNameLength = 256

// checkName applies the rules shared by category names and origins: the
// value is non-blank, at most maxNameLength bytes and free of control
// characters. what names the value in the error message.
func checkName(what, s string) error {
	switch {
	case strings.TrimSpace(s) == "":
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	case len(s) > maxNameLength:
		return New(ErrCodeInvalidInput, "%s is longer than %d characters", what, maxNameLength)
	case strings.IndexFunc(s, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidInput, "%s contains control characters", what)
	}
	return nil
}

// ValidateCategory rejects category names that can never be an index key.
// Whether the category exists is left to the resolver.
func ValidateCategory(name string) error {
	if err := checkName("category", name); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "category %q contains a path separator", name)
	}
	return nil
}

// ValidateOrigin rejects origins that are unsafe to splice into a URL path.
// The <prefix>/<owner>/<repo> shape is checked by the resolver, which
// reports ErrCodeMalformedOrigin.
func ValidateOrigin(origin string) error {
	if err := checkName("origin", origin); err != nil {
		return err
	}
	if strings.Contains(origin, "..") || strings.Contains(origin, `\`) {
		return New(ErrCodeInvalidInput, "origin %q contains a relative or escaped path", origin)
	}
	return nil
}

// ValidateURL requires an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}

// ValidateHost requires a bare host, optionally with a port, such as
// "raw.githubusercontent.com" or "localhost:9000".
func ValidateHost(host string) error {
	switch {
	case host == "":
		return New(ErrCodeInvalidInput, "host cannot be empty")
	case strings.Contains(host, "://"):
		return New(ErrCodeInvalidInput, "host %q must not include a scheme", host)
	case strings.ContainsAny(host, "/ "), strings.IndexFunc(host, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidInput, "invalid host %q", host)
	}
	return nil
}
