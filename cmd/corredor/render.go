// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/miinsurtech/corredor/pkg/ux"
)

// =============================================================================
// TABLE RENDERING
// =============================================================================

// renderTable prints a padded column table. Widths are computed from
// the data; styling is applied after padding so escape codes don't
// skew the alignment.
func renderTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-utf8.RuneCountInString(s))
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(h, widths[i]))
	}
	if ux.Plain() {
		fmt.Println(b.String())
	} else {
		fmt.Println(ux.Styles.TableHeader.Render(b.String()))
	}

	for n, row := range rows {
		b.Reset()
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i < len(widths) {
				cell = pad(cell, widths[i])
			}
			b.WriteString(cell)
		}
		line := b.String()
		switch {
		case ux.Plain():
			fmt.Println(line)
		case n%2 == 1:
			fmt.Println(ux.Styles.TableRowAlt.Render(line))
		default:
			fmt.Println(ux.Styles.TableRow.Render(line))
		}
	}
}

// =============================================================================
// CELL FORMATTING
// =============================================================================

// fecha renders a date with the stored preference format.
func (a *App) fecha(t time.Time) string {
	return ux.FormatDate(a.Prefs.DateFormat, t)
}

// fechaOpt renders an optional date, "-" when absent.
func (a *App) fechaOpt(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return a.fecha(*t)
}

// dinero renders an amount with the stored currency symbol.
func (a *App) dinero(v float64) string {
	return ux.FormatMoney(a.Prefs.CurrencySymbol, v)
}

// dineroOpt renders an optional amount, "-" when absent.
func (a *App) dineroOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return a.dinero(*v)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// parseFilters splits repeated "clave=valor" flags into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("filtro inválido %q: use clave=valor", pair)
		}
		filters[k] = v
	}
	return filters, nil
}
