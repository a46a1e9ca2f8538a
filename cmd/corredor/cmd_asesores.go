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
	asesoresListOpts listOptions
	asesorForm       forms.AsesorForm
)

var (
	asesoresCmd = &cobra.Command{
		Use:   "asesores",
		Short: "Gestiona los asesores de seguros",
	}
	asesoresListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista los asesores, con paginación y filtros",
		Run:   runAsesoresList,
	}
	asesoresCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Registra un asesor nuevo",
		Run:   runAsesoresCrear,
	}
	asesoresEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza un asesor existente",
		Args:  cobra.ExactArgs(1),
		Run:   runAsesoresEditar,
	}
	asesoresEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina un asesor",
		Args:  cobra.ExactArgs(1),
		Run:   runAsesoresEliminar,
	}
)

func init() {
	asesoresListCmd.Flags().IntVar(&asesoresListOpts.page, "pagina", 1, "Página a mostrar")
	asesoresListCmd.Flags().StringArrayVar(&asesoresListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	asesoresListCmd.Flags().StringVar(&asesoresListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{asesoresCrearCmd, asesoresEditarCmd} {
		c.Flags().StringVar(&asesorForm.Nombre, "nombre", "", "Nombre")
		c.Flags().StringVar(&asesorForm.Apellido, "apellido", "", "Apellido")
		c.Flags().StringVar(&asesorForm.Cedula, "cedula", "", "Cédula de identidad")
		c.Flags().StringVar(&asesorForm.Telefono, "telefono", "", "Teléfono")
		c.Flags().StringVar(&asesorForm.Email, "email", "", "Correo electrónico")
		c.Flags().StringVar(&asesorForm.FechaContratacion, "contratacion", "", "Fecha de contratación (dd/mm/aaaa)")
		c.Flags().StringVar(&asesorForm.EmpresaAseguradoraID, "aseguradora", "", "ID de la aseguradora (opcional)")
	}

	rootCmd.AddCommand(asesoresCmd)
	asesoresCmd.AddCommand(asesoresListCmd)
	asesoresCmd.AddCommand(asesoresCrearCmd)
	asesoresCmd.AddCommand(asesoresEditarCmd)
	asesoresCmd.AddCommand(asesoresEliminarCmd)
}

func runAsesoresList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	headers := []string{"ID", "NOMBRE", "CÉDULA", "EMAIL", "ASEGURADORA", "CONTRATACIÓN"}
	runEntityList(app, entity.TypeAsesor, asesoresListOpts, headers,
		func(a entity.Asesor) []string {
			empresa := "-"
			if a.EmpresaAseguradora != nil {
				empresa = a.EmpresaAseguradora.Nombre
			} else if a.EmpresaAseguradoraID != nil {
				empresa = itoa(*a.EmpresaAseguradoraID)
			}
			return []string{
				itoa(a.ID),
				a.Nombre + " " + a.Apellido,
				a.Cedula,
				a.Email,
				empresa,
				app.fecha(a.FechaContratacion),
			}
		})
}

func runAsesoresCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, asesorForm, "Asesor")
}

func runAsesoresEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypeAsesor, id)
	submitForm(app, asesorForm, "Asesor")
}

func runAsesoresEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypeAsesor, parseID(app, args[0]), "Asesor")
}
