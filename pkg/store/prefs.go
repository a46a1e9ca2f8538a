// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "fmt"

// Preferences are the user-tunable display settings. Each field is
// persisted under its own key so a partial write never corrupts the
// rest.
type Preferences struct {
	Language       string
	CurrencySymbol string
	DateFormat     string
	Country        string
}

// DefaultPreferences returns the defaults the web console shipped
// with: Spanish UI, dollar amounts, day-first dates, Venezuela.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:       "es",
		CurrencySymbol: "USD",
		DateFormat:     "dd/MM/yyyy",
		Country:        "VE",
	}
}

// countryDefaults maps a country code to its customary currency symbol
// and date format, applied when the user switches country.
var countryDefaults = map[string]Preferences{
	"VE": {CurrencySymbol: "USD", DateFormat: "dd/MM/yyyy"},
	"US": {CurrencySymbol: "USD", DateFormat: "MM/dd/yyyy"},
	"ES": {CurrencySymbol: "EUR", DateFormat: "dd/MM/yyyy"},
	"MX": {CurrencySymbol: "MXN", DateFormat: "dd/MM/yyyy"},
	"CO": {CurrencySymbol: "COP", DateFormat: "dd/MM/yyyy"},
}

// ApplyCountryDefaults overwrites the currency symbol and date format
// with the defaults for country, when the country is known. Language
// is left alone.
func (p *Preferences) ApplyCountryDefaults(country string) {
	d, ok := countryDefaults[country]
	if !ok {
		return
	}
	p.Country = country
	p.CurrencySymbol = d.CurrencySymbol
	p.DateFormat = d.DateFormat
}

// LoadPreferences reads preferences from s, filling any missing key
// with its default.
func LoadPreferences(s *Store) (Preferences, error) {
	p := DefaultPreferences()

	fields := []struct {
		key string
		dst *string
	}{
		{KeyLanguage, &p.Language},
		{KeyCurrencySymbol, &p.CurrencySymbol},
		{KeyDateFormat, &p.DateFormat},
		{KeyCountry, &p.Country},
	}
	for _, f := range fields {
		v, ok, err := s.Get(f.key)
		if err != nil {
			return p, fmt.Errorf("load preference %s: %w", f.key, err)
		}
		if ok {
			*f.dst = v
		}
	}
	return p, nil
}

// SavePreferences writes every preference field to s.
func SavePreferences(s *Store, p Preferences) error {
	fields := []struct {
		key   string
		value string
	}{
		{KeyLanguage, p.Language},
		{KeyCurrencySymbol, p.CurrencySymbol},
		{KeyDateFormat, p.DateFormat},
		{KeyCountry, p.Country},
	}
	for _, f := range fields {
		if err := s.Set(f.key, f.value); err != nil {
			return fmt.Errorf("save preference %s: %w", f.key, err)
		}
	}
	return nil
}
