// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"

	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/store"
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	licenciaCmd = &cobra.Command{
		Use:   "licencia",
		Short: "Consulta y activa la licencia de la cuenta",
	}
	licenciaEstadoCmd = &cobra.Command{
		Use:   "estado",
		Short: "Muestra el estado de la licencia",
		Run:   runLicenciaEstado,
	}
	licenciaActivarCmd = &cobra.Command{
		Use:   "activar [clave]",
		Short: "Activa la cuenta con una clave de licencia",
		Args:  cobra.ExactArgs(1),
		Run:   runLicenciaActivar,
	}
)

func init() {
	rootCmd.AddCommand(licenciaCmd)
	licenciaCmd.AddCommand(licenciaEstadoCmd)
	licenciaCmd.AddCommand(licenciaActivarCmd)
}

func renderLicense(app *App, st *entity.LicenseStatus) {
	switch {
	case !st.IsActive:
		ux.ErrorBox("Licencia inactiva",
			"La cuenta no tiene una licencia vigente.\nActive una con `corredor licencia activar <clave>`.")
	case st.IsTrial:
		ux.Warning(fmt.Sprintf("Periodo de prueba: quedan %d días.", st.DaysRemaining))
	default:
		ux.Success(fmt.Sprintf("Licencia activa: quedan %d días.", st.DaysRemaining))
	}
	if st.StartDate != nil {
		ux.Info("Inicio: " + app.fecha(*st.StartDate))
	}
	if st.EndDate != nil {
		ux.Info("Fin: " + app.fecha(*st.EndDate))
	}
}

func runLicenciaEstado(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	st, err := app.API.LicenseStatus(context.Background())
	if err != nil {
		fail(app, err)
	}
	renderLicense(app, st)
}

func runLicenciaActivar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	key := args[0]
	st, err := app.API.ActivateLicense(context.Background(), key)
	if err != nil {
		fail(app, err)
	}
	// Remember the key locally, like the web console does.
	if err := app.Store.Set(store.KeyLicense, key); err != nil {
		app.Logger.Warn("failed to persist license key", "error", err)
	}
	renderLicense(app, st)
}
