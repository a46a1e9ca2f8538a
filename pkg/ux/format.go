// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts maps the preference tokens (web-console notation) to Go
// layouts. Unknown formats fall back to day-first.
var dateLayouts = map[string]string{
	"dd/MM/yyyy": "02/01/2006",
	"MM/dd/yyyy": "01/02/2006",
	"yyyy-MM-dd": "2006-01-02",
}

// FormatDate renders t using the preference-style format token.
func FormatDate(format string, t time.Time) string {
	layout, ok := dateLayouts[format]
	if !ok {
		layout = "02/01/2006"
	}
	return t.Format(layout)
}

// FormatMoney renders an amount with the preference currency symbol,
// thousands grouping, and two decimals: "USD 1.250,75".
func FormatMoney(symbol string, amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s,%02d", symbol, sign, b.String(), cents)
}

// Amount renders money with the gold amount style.
func Amount(symbol string, amount float64) string {
	text := FormatMoney(symbol, amount)
	if Plain() {
		return text
	}
	return Styles.Amount.Render(text)
}
