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
	aseguradorasListOpts listOptions
	empresaForm          forms.EmpresaForm
)

var (
	aseguradorasCmd = &cobra.Command{
		Use:   "aseguradoras",
		Short: "Gestiona las empresas aseguradoras",
	}
	aseguradorasListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista las aseguradoras, con paginación y filtros",
		Run:   runAseguradorasList,
	}
	aseguradorasCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Registra una aseguradora nueva",
		Run:   runAseguradorasCrear,
	}
	aseguradorasEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza una aseguradora existente",
		Args:  cobra.ExactArgs(1),
		Run:   runAseguradorasEditar,
	}
	aseguradorasEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina una aseguradora",
		Args:  cobra.ExactArgs(1),
		Run:   runAseguradorasEliminar,
	}
)

func init() {
	aseguradorasListCmd.Flags().IntVar(&aseguradorasListOpts.page, "pagina", 1, "Página a mostrar")
	aseguradorasListCmd.Flags().StringArrayVar(&aseguradorasListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	aseguradorasListCmd.Flags().StringVar(&aseguradorasListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{aseguradorasCrearCmd, aseguradorasEditarCmd} {
		c.Flags().StringVar(&empresaForm.Nombre, "nombre", "", "Razón social")
		c.Flags().StringVar(&empresaForm.RIF, "rif", "", "RIF")
		c.Flags().StringVar(&empresaForm.Direccion, "direccion", "", "Dirección")
		c.Flags().StringVar(&empresaForm.Telefono, "telefono", "", "Teléfono")
		c.Flags().StringVar(&empresaForm.Email, "email", "", "Correo electrónico")
	}

	rootCmd.AddCommand(aseguradorasCmd)
	aseguradorasCmd.AddCommand(aseguradorasListCmd)
	aseguradorasCmd.AddCommand(aseguradorasCrearCmd)
	aseguradorasCmd.AddCommand(aseguradorasEditarCmd)
	aseguradorasCmd.AddCommand(aseguradorasEliminarCmd)
}

func runAseguradorasList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	headers := []string{"ID", "NOMBRE", "RIF", "TELÉFONO", "EMAIL"}
	runEntityList(app, entity.TypeEmpresaAseguradora, aseguradorasListOpts, headers,
		func(e entity.EmpresaAseguradora) []string {
			return []string{
				itoa(e.ID),
				e.Nombre,
				e.RIF,
				deref(e.Telefono),
				deref(e.Email),
			}
		})
}

func runAseguradorasCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, empresaForm, "Aseguradora")
}

func runAseguradorasEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypeEmpresaAseguradora, id)
	submitForm(app, empresaForm, "Aseguradora")
}

func runAseguradorasEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypeEmpresaAseguradora, parseID(app, args[0]), "Aseguradora")
}
