// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"
	"time"

	"github.com/miinsurtech/corredor/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"estado=Activa", "tipo_poliza=Vida"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"estado": "Activa", "tipo_poliza": "Vida"}, filters)
}

func TestParseFilters_Empty(t *testing.T) {
	filters, err := parseFilters(nil)
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestParseFilters_KeepsEqualsInValue(t *testing.T) {
	filters, err := parseFilters([]string{"search=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", filters["search"])
}

func TestParseFilters_Invalid(t *testing.T) {
	for _, pair := range []string{"sinvalor", "=valor"} {
		_, err := parseFilters([]string{pair})
		assert.Error(t, err, "pair %q should be rejected", pair)
	}
}

func TestCellHelpers(t *testing.T) {
	app := &App{Prefs: store.DefaultPreferences()}

	d := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "30/06/2025", app.fecha(d))
	assert.Equal(t, "30/06/2025", app.fechaOpt(&d))
	assert.Equal(t, "-", app.fechaOpt(nil))

	v := 1250.75
	assert.Equal(t, "USD 1.250,75", app.dinero(v))
	assert.Equal(t, "USD 1.250,75", app.dineroOpt(&v))
	assert.Equal(t, "-", app.dineroOpt(nil))

	s := "texto"
	assert.Equal(t, "texto", deref(&s))
	assert.Equal(t, "-", deref(nil))
	assert.Equal(t, "42", itoa(42))
}

func TestCountsLine_StableOrder(t *testing.T) {
	got := countsLine(map[string]int{"Vencida": 2, "Activa": 5, "Cancelada": 1})
	assert.Equal(t, "Activa 5, Cancelada 1, Vencida 2", got)
}
