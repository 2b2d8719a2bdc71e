// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import "testing"

func TestNormalizeNumericID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"4", "004"},
		{"36", "036"},
		{"840", "840"},
		{" 076 ", "076"},
		{"-99", "-99"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeNumericID(tt.in); got != tt.want {
			t.Errorf("NormalizeNumericID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlphaForNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"840", "US", true},
		{"276", "DE", true},
		{"4", "AF", true},
		{"036", "AU", true},
		{"-99", "", false},
		{"999", "", false},
	}

	for _, tt := range tests {
		got, ok := AlphaForNumeric(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("AlphaForNumeric(%q) = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumericTableIsBijective(t *testing.T) {
	t.Parallel()

	if len(numericToAlpha2) != len(alpha2ToNumeric) {
		t.Fatalf("table has %d numeric ids but %d alpha codes; duplicates present",
			len(numericToAlpha2), len(alpha2ToNumeric))
	}
	for numeric, alpha := range numericToAlpha2 {
		if len(numeric) != 3 {
			t.Errorf("numeric id %q is not zero-padded", numeric)
		}
		back, ok := NumericForAlpha(alpha)
		if !ok || back != numeric {
			t.Errorf("NumericForAlpha(%q) = %q, want %q", alpha, back, numeric)
		}
	}
}

func TestIsAlpha2(t *testing.T) {
	t.Parallel()

	if !IsAlpha2("US") {
		t.Error("IsAlpha2(US) = false")
	}
	if IsAlpha2("us") {
		t.Error("IsAlpha2 should be case sensitive")
	}
	if IsAlpha2("XX") {
		t.Error("IsAlpha2(XX) = true")
	}
}
