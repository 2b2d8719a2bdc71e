// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package logging

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// addFieldPairs adds key-value pairs to a zerolog event.
func addFieldPairs(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if s, ok := fields[i+1].(string); ok {
			e = e.Str(key, SanitizeValue(key, s))
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}

// SanitizeSecret masks a credential, showing only the first and last 4
// characters. Short values are masked entirely.
// Example: "sk_live_0123456789abcdef" -> "sk_l...cdef"
func SanitizeSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 12 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// SanitizeSessionID makes a client-supplied session ID safe to log: control
// characters are dropped and the result is capped at 64 bytes.
func SanitizeSessionID(id string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, id)
	return truncateString(clean, 64)
}

// SanitizeError strips credentials that upstream clients sometimes echo back
// in error strings and truncates long messages.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range []string{"authorization", "bearer", "api_key", "apikey", "x-api-key"} {
		if strings.Contains(lower, pattern) {
			return "upstream error (details redacted)"
		}
	}
	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	switch strings.ToLower(key) {
	case "api_key", "apikey", "authorization", "token", "secret", "password":
		return SanitizeSecret(value)
	case "session_id", "session":
		return SanitizeSessionID(value)
	case "error", "err":
		return SanitizeError(value)
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
