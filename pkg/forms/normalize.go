// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DecimalValue parses a user-typed amount. Spanish-locale input uses
// the comma as decimal separator ("1.250,75"); the backend wants a
// plain float. Accepted forms:
//
//	1250.75    1250,75    1.250,75    1,250.75
//
// When both separators appear, the rightmost one is the decimal
// separator and the other is grouping.
func DecimalValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Comma only: decimal separator, never grouping. "1,250" is
		// one and a quarter, not one thousand.
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// ForeignKeyValue parses an optional foreign key field. An empty field
// means "no relation" and maps to nil so the backend stores NULL
// instead of a dangling zero ID.
func ForeignKeyValue(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// RequiredKeyValue parses a mandatory foreign key field.
func RequiredKeyValue(s string) (int64, error) {
	v, err := ForeignKeyValue(s)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("id is required")
	}
	return v.(int64), nil
}

// dateLayouts are the input formats accepted, in match order. The
// console shows dates day-first; ISO input is accepted for scripting.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// DateValue parses a user-typed date and renders it in the wire format
// (RFC 3339 full-date).
func DateValue(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// OptionalDateValue is DateValue for fields that may be blank; a blank
// field maps to nil.
func OptionalDateValue(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return DateValue(s)
}

// OptionalString maps a blank field to nil, so the backend stores NULL
// rather than an empty string.
func OptionalString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// OptionalDecimalValue is DecimalValue for fields that may be blank.
func OptionalDecimalValue(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return DecimalValue(s)
}
