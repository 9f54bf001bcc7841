// Package guestname encodes guest display names for use in shareable
// invitation URLs. Names are base64-encoded so Vietnamese characters and
// spaces survive query strings untouched.
//
// The token is not signed or keyed: anyone who knows a guest's exact
// display name can reconstruct their link. It is a shareable capability,
// not a secret.
package guestname

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenPattern matches the unpadded URL-safe base64 alphabet. Anything
// outside it is treated as "no guest", never as an error.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Encode converts a guest display name into a URL-safe token.
// Encoding an empty or blank name yields the empty string.
func Encode(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(name))
}

// Decode converts a token back into the guest display name. The second
// return value is false when the token is absent, malformed, or decodes
// to something that cannot be a name: invalid UTF-8, blank text, or text
// containing control characters. Tampered URL parameters degrade to
// "no guest" rather than surfacing a parse error.
func Decode(token string) (string, bool) {
	if strings.TrimSpace(token) == "" {
		return "", false
	}

	if !tokenPattern.MatchString(token) {
		return "", false
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}

	name := string(raw)
	if !utf8.ValidString(name) {
		return "", false
	}
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", false
		}
	}

	return name, true
}
