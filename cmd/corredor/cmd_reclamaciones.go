// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/forms"
	"github.com/spf13/cobra"
)

var (
	reclamacionesListOpts listOptions
	reclamacionForm       forms.ReclamacionForm
)

var (
	reclamacionesCmd = &cobra.Command{
		Use:   "reclamaciones",
		Short: "Gestiona las reclamaciones (siniestros)",
	}
	reclamacionesListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista las reclamaciones, con paginación y filtros",
		Run:   runReclamacionesList,
	}
	reclamacionesCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Registra una reclamación nueva",
		Run:   runReclamacionesCrear,
	}
	reclamacionesEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza una reclamación existente",
		Args:  cobra.ExactArgs(1),
		Run:   runReclamacionesEditar,
	}
	reclamacionesEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina una reclamación",
		Args:  cobra.ExactArgs(1),
		Run:   runReclamacionesEliminar,
	}
)

func init() {
	reclamacionesListCmd.Flags().IntVar(&reclamacionesListOpts.page, "pagina", 1, "Página a mostrar")
	reclamacionesListCmd.Flags().StringArrayVar(&reclamacionesListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	reclamacionesListCmd.Flags().StringVar(&reclamacionesListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{reclamacionesCrearCmd, reclamacionesEditarCmd} {
		c.Flags().StringVar(&reclamacionForm.PolizaID, "poliza", "", "ID de la póliza")
		c.Flags().StringVar(&reclamacionForm.ClienteID, "cliente", "", "ID del cliente")
		c.Flags().StringVar(&reclamacionForm.FechaReclamacion, "fecha", "", "Fecha de la reclamación (dd/mm/aaaa)")
		c.Flags().StringVar(&reclamacionForm.Descripcion, "descripcion", "", "Descripción del siniestro")
		c.Flags().StringVar(&reclamacionForm.Estado, "estado", entity.EstadoReclamacionPendiente,
			"Estado (Pendiente, Aprobada, Rechazada, Cerrada)")
		c.Flags().StringVar(&reclamacionForm.MontoReclamado, "reclamado", "", "Monto reclamado")
		c.Flags().StringVar(&reclamacionForm.MontoAprobado, "aprobado", "", "Monto aprobado")
		c.Flags().StringVar(&reclamacionForm.FechaResolucion, "resolucion", "", "Fecha de resolución (dd/mm/aaaa)")
		c.Flags().StringVar(&reclamacionForm.Observaciones, "observaciones", "", "Observaciones")
	}

	rootCmd.AddCommand(reclamacionesCmd)
	reclamacionesCmd.AddCommand(reclamacionesListCmd)
	reclamacionesCmd.AddCommand(reclamacionesCrearCmd)
	reclamacionesCmd.AddCommand(reclamacionesEditarCmd)
	reclamacionesCmd.AddCommand(reclamacionesEliminarCmd)
}

func runReclamacionesList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	headers := []string{"ID", "PÓLIZA", "CLIENTE", "FECHA", "ESTADO", "RECLAMADO", "APROBADO"}
	runEntityList(app, entity.TypeReclamacion, reclamacionesListOpts, headers,
		func(r entity.Reclamacion) []string {
			return []string{
				itoa(r.ID),
				itoa(r.PolizaID),
				itoa(r.ClienteID),
				app.fecha(r.FechaReclamacion),
				r.Estado,
				app.dineroOpt(r.MontoReclamado),
				app.dineroOpt(r.MontoAprobado),
			}
		})
}

func runReclamacionesCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, reclamacionForm, "Reclamación")
}

func runReclamacionesEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypeReclamacion, id)
	submitForm(app, reclamacionForm, "Reclamación")
}

func runReclamacionesEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypeReclamacion, parseID(app, args[0]), "Reclamación")
}
