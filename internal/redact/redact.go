// Package redact masks credentials before they reach log output.
package redact

import "strings"

// Email keeps the first two runes of the local part and the domain.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}
	return "***@" + domain
}

// Token reports whether a token is present without revealing it.
func Token(s string) string {
	if s == "" {
		return "[EMPTY]"
	}
	return "[REDACTED_TOKEN]"
}

func Password() string { return "[REDACTED_PASSWORD]" }
