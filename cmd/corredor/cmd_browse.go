// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Explora la cartera en una interfaz interactiva",
	Long: `Abre un explorador de pantalla completa con una pestaña por
			entidad. La vista activa queda montada en el bus de
			invalidación, así que se recarga sola cuando cambia un
			registro relacionado.`,
	Run: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	model := newBrowseModel(app)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fail(app, err)
	}
}
