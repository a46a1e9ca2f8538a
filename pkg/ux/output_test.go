// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Plain mode
// =============================================================================

func TestSetPlain_Overrides(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)

	SetPlain(true)
	if !Plain() {
		t.Error("Plain() should be true after SetPlain(true)")
	}
	SetPlain(false)
	if Plain() {
		t.Error("Plain() should be false after SetPlain(false)")
	}
}

func TestIcon_Render_Plain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)
	SetPlain(true)

	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending, IconArrow} {
		if got := icon.Render(); got != string(icon) {
			t.Errorf("plain Render() = %q, want bare %q", got, string(icon))
		}
	}
}

func TestPageFooter_Plain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)
	SetPlain(true)

	got := PageFooter(2, 5, 47)
	want := "página 2 de 5 (47 registros)"
	if got != want {
		t.Errorf("PageFooter() = %q, want %q", got, want)
	}
}

// =============================================================================
// Formatting
// =============================================================================

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		format string
		want   string
	}{
		{"dd/MM/yyyy", "15/03/2025"},
		{"MM/dd/yyyy", "03/15/2025"},
		{"yyyy-MM-dd", "2025-03-15"},
		{"unknown", "15/03/2025"}, // falls back to day-first
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := FormatDate(tt.format, d); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1250.75, "USD 1.250,75"},
		{0, "USD 0,00"},
		{999.999, "USD 1.000,00"},
		{1234567.5, "USD 1.234.567,50"},
		{-42.1, "USD -42,10"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatMoney("USD", tt.amount); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestAmount_PlainHasNoEscapes(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)
	SetPlain(true)

	got := Amount("EUR", 10)
	if strings.Contains(got, "\x1b") {
		t.Errorf("plain Amount() contains escape codes: %q", got)
	}
}
