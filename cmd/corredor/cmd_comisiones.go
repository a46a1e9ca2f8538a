// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/forms"
	"github.com/spf13/cobra"
)

var (
	comisionesListOpts listOptions
	comisionForm       forms.ComisionForm
)

var (
	comisionesCmd = &cobra.Command{
		Use:   "comisiones",
		Short: "Gestiona las comisiones de los asesores",
	}
	comisionesListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista las comisiones, con paginación y filtros",
		Run:   runComisionesList,
	}
	comisionesCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Registra una comisión nueva",
		Run:   runComisionesCrear,
	}
	comisionesEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza una comisión existente",
		Args:  cobra.ExactArgs(1),
		Run:   runComisionesEditar,
	}
	comisionesEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina una comisión",
		Args:  cobra.ExactArgs(1),
		Run:   runComisionesEliminar,
	}
)

func init() {
	comisionesListCmd.Flags().IntVar(&comisionesListOpts.page, "pagina", 1, "Página a mostrar")
	comisionesListCmd.Flags().StringArrayVar(&comisionesListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	comisionesListCmd.Flags().StringVar(&comisionesListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{comisionesCrearCmd, comisionesEditarCmd} {
		c.Flags().StringVar(&comisionForm.PolizaID, "poliza", "", "ID de la póliza")
		c.Flags().StringVar(&comisionForm.AsesorID, "asesor", "", "ID del asesor")
		c.Flags().StringVar(&comisionForm.Monto, "monto", "", "Monto de la comisión")
		c.Flags().StringVar(&comisionForm.PorcentajeComision, "porcentaje", "", "Porcentaje aplicado")
		c.Flags().StringVar(&comisionForm.FechaCalculo, "calculo", "", "Fecha de cálculo (dd/mm/aaaa)")
		c.Flags().StringVar(&comisionForm.EstatusPago, "estatus", entity.EstatusPagoPendiente,
			"Estatus de pago (Pendiente, Pagado, Anulado)")
		c.Flags().StringVar(&comisionForm.FechaPago, "pago", "", "Fecha de pago (dd/mm/aaaa)")
		c.Flags().StringVar(&comisionForm.TipoComision, "tipo", "", "Tipo de comisión")
		c.Flags().StringVar(&comisionForm.Observaciones, "observaciones", "", "Observaciones")
	}

	rootCmd.AddCommand(comisionesCmd)
	comisionesCmd.AddCommand(comisionesListCmd)
	comisionesCmd.AddCommand(comisionesCrearCmd)
	comisionesCmd.AddCommand(comisionesEditarCmd)
	comisionesCmd.AddCommand(comisionesEliminarCmd)
}

func runComisionesList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	headers := []string{"ID", "PÓLIZA", "ASESOR", "MONTO", "%", "ESTATUS", "PAGO"}
	runEntityList(app, entity.TypeComision, comisionesListOpts, headers,
		func(c entity.Comision) []string {
			return []string{
				itoa(c.ID),
				itoa(c.PolizaID),
				itoa(c.AsesorID),
				app.dinero(c.Monto),
				fmt.Sprintf("%.1f", c.PorcentajeComision),
				c.EstatusPago,
				app.fechaOpt(c.FechaPago),
			}
		})
}

func runComisionesCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, comisionForm, "Comisión")
}

func runComisionesEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypeComision, id)
	submitForm(app, comisionForm, "Comisión")
}

func runComisionesEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypeComision, parseID(app, args[0]), "Comisión")
}
