// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "***"},
		{"exactly12chr", "***"},
		{"sk_live_0123456789abcdef", "sk_l...cdef"},
	}
	for _, tt := range tests {
		if got := SanitizeSecret(tt.input); got != tt.expected {
			t.Errorf("SanitizeSecret(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeSessionID(t *testing.T) {
	t.Parallel()

	if got := SanitizeSessionID("abc\r\ndef"); got != "abcdef" {
		t.Errorf("control characters kept: %q", got)
	}
	long := strings.Repeat("x", 100)
	if got := SanitizeSessionID(long); got != strings.Repeat("x", 64)+"..." {
		t.Errorf("long id not truncated: %q", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		redacted bool
	}{
		{"plain", "connection refused", false},
		{"bearer", "401: invalid Bearer abc", true},
		{"api key header", "rejected X-API-Key header", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SanitizeError(tt.input)
			if (got != tt.input) != tt.redacted {
				t.Errorf("SanitizeError(%q) = %q, redacted want %v", tt.input, got, tt.redacted)
			}
		})
	}

	if got := SanitizeError(strings.Repeat("e", 300)); len(got) != 203 {
		t.Errorf("len(SanitizeError(long)) = %d, want 203", len(got))
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value, expected string
	}{
		{"api_key", "sk_live_0123456789abcdef", "sk_l...cdef"},
		{"session_id", "a\tb", "ab"},
		{"country_code", "DE", "DE"},
	}
	for _, tt := range tests {
		if got := SanitizeValue(tt.key, tt.value); got != tt.expected {
			t.Errorf("SanitizeValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.expected)
		}
	}
}
