// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/miinsurtech/corredor/pkg/store"
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Muestra y ajusta las preferencias locales",
	}
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Muestra las preferencias activas",
		Run:   runConfigShow,
	}
	configSetCmd = &cobra.Command{
		Use:   "set [clave] [valor]",
		Short: "Ajusta una preferencia: idioma, moneda, formato-fecha o pais",
		Long: `Ajusta una preferencia local. Claves admitidas:

  idioma         Código de idioma de la interfaz (es, en)
  moneda         Símbolo de moneda para montos (USD, Bs., €)
  formato-fecha  dd/MM/yyyy, MM/dd/yyyy o yyyy-MM-dd
  pais           Código de país; aplica la moneda y el formato
                 de fecha habituales de ese país`,
		Args: cobra.ExactArgs(2),
		Run:  runConfigSet,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	ux.Title("Preferencias")
	renderTable(
		[]string{"CLAVE", "VALOR"},
		[][]string{
			{"idioma", app.Prefs.Language},
			{"moneda", app.Prefs.CurrencySymbol},
			{"formato-fecha", app.Prefs.DateFormat},
			{"pais", app.Prefs.Country},
		},
	)
	ux.Muted("backend: " + app.Config.APIURL)
	ux.Muted("datos: " + app.Store.Path())
}

func runConfigSet(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	key, value := args[0], args[1]
	prefs := app.Prefs

	switch key {
	case "idioma":
		prefs.Language = value
	case "moneda":
		prefs.CurrencySymbol = value
	case "formato-fecha":
		prefs.DateFormat = value
	case "pais":
		// Switching country pulls in its usual currency and date
		// format; the language stays as chosen.
		prefs.ApplyCountryDefaults(value)
	default:
		fail(app, fmt.Errorf("clave desconocida %q: use idioma, moneda, formato-fecha o pais", key))
	}

	if err := store.SavePreferences(app.Store, prefs); err != nil {
		fail(app, err)
	}
	ux.Success(fmt.Sprintf("%s = %s", key, value))
	if key == "pais" {
		ux.Muted(fmt.Sprintf("moneda %s, formato de fecha %s", prefs.CurrencySymbol, prefs.DateFormat))
	}
}
