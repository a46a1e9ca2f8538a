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

	"github.com/miinsurtech/corredor/pkg/api"
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/forms"
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	polizasListOpts  listOptions
	polizaForm       forms.PolizaForm
	vencimientosDias int
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var (
	polizasCmd = &cobra.Command{
		Use:   "polizas",
		Short: "Gestiona las pólizas de seguro",
	}
	polizasListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista las pólizas, con paginación y filtros",
		Run:   runPolizasList,
	}
	polizasCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Crea una póliza nueva",
		Run:   runPolizasCrear,
	}
	polizasEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza una póliza existente",
		Args:  cobra.ExactArgs(1),
		Run:   runPolizasEditar,
	}
	polizasEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina una póliza",
		Args:  cobra.ExactArgs(1),
		Run:   runPolizasEliminar,
	}
	polizasVencimientosCmd = &cobra.Command{
		Use:   "vencimientos",
		Short: "Muestra las pólizas próximas a vencer",
		Run:   runPolizasVencimientos,
	}
)

func init() {
	polizasListCmd.Flags().IntVar(&polizasListOpts.page, "pagina", 1, "Página a mostrar")
	polizasListCmd.Flags().StringArrayVar(&polizasListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	polizasListCmd.Flags().StringVar(&polizasListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{polizasCrearCmd, polizasEditarCmd} {
		c.Flags().StringVar(&polizaForm.NumeroPoliza, "numero", "", "Número de póliza")
		c.Flags().StringVar(&polizaForm.TipoPoliza, "tipo", "", "Tipo de póliza (Vida, Automóvil, ...)")
		c.Flags().StringVar(&polizaForm.FechaInicio, "inicio", "", "Fecha de inicio (dd/mm/aaaa)")
		c.Flags().StringVar(&polizaForm.FechaFin, "fin", "", "Fecha de fin (dd/mm/aaaa)")
		c.Flags().StringVar(&polizaForm.MontoAsegurado, "monto", "", "Monto asegurado")
		c.Flags().StringVar(&polizaForm.Prima, "prima", "", "Prima")
		c.Flags().StringVar(&polizaForm.Estado, "estado", entity.EstadoPolizaActiva, "Estado (Activa, Vencida, Cancelada)")
		c.Flags().StringVar(&polizaForm.Observaciones, "observaciones", "", "Observaciones")
		c.Flags().StringVar(&polizaForm.ClienteID, "cliente", "", "ID del cliente")
		c.Flags().StringVar(&polizaForm.EmpresaAseguradoraID, "aseguradora", "", "ID de la aseguradora")
		c.Flags().StringVar(&polizaForm.AsesorID, "asesor", "", "ID del asesor (opcional)")
	}

	polizasVencimientosCmd.Flags().IntVar(&vencimientosDias, "dias", api.DefaultExpirationWindow,
		"Ventana de vencimiento en días")

	rootCmd.AddCommand(polizasCmd)
	polizasCmd.AddCommand(polizasListCmd)
	polizasCmd.AddCommand(polizasCrearCmd)
	polizasCmd.AddCommand(polizasEditarCmd)
	polizasCmd.AddCommand(polizasEliminarCmd)
	polizasCmd.AddCommand(polizasVencimientosCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func polizaRow(app *App) func(entity.Poliza) []string {
	return func(p entity.Poliza) []string {
		cliente := itoa(p.ClienteID)
		if p.Cliente != nil {
			cliente = p.Cliente.Nombre + " " + p.Cliente.Apellido
		}
		return []string{
			itoa(p.ID),
			p.NumeroPoliza,
			p.TipoPoliza,
			cliente,
			p.Estado,
			app.dinero(p.Prima),
			app.fecha(p.FechaFin),
		}
	}
}

var polizaHeaders = []string{"ID", "NÚMERO", "TIPO", "CLIENTE", "ESTADO", "PRIMA", "VENCE"}

func runPolizasList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityList(app, entity.TypePoliza, polizasListOpts, polizaHeaders, polizaRow(app))
}

func runPolizasCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, polizaForm, "Póliza")
}

func runPolizasEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypePoliza, id)
	submitForm(app, polizaForm, "Póliza")
}

func runPolizasEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypePoliza, parseID(app, args[0]), "Póliza")
}

func runPolizasVencimientos(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	polizas, err := app.API.UpcomingExpirations(context.Background(), vencimientosDias)
	if err != nil {
		fail(app, err)
	}
	if len(polizas) == 0 {
		ux.Success(fmt.Sprintf("Ninguna póliza vence en los próximos %d días.", vencimientosDias))
		return
	}

	ux.Warning(fmt.Sprintf("%d pólizas vencen en los próximos %d días", len(polizas), vencimientosDias))
	rows := make([][]string, 0, len(polizas))
	row := polizaRow(app)
	for _, p := range polizas {
		rows = append(rows, row(p))
	}
	renderTable(polizaHeaders, rows)
}
