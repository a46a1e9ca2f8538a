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

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	clientesListOpts listOptions
	clienteForm      forms.ClienteForm
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var (
	clientesCmd = &cobra.Command{
		Use:   "clientes",
		Short: "Gestiona los clientes de la correduría",
	}
	clientesListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista los clientes, con paginación y filtros",
		Run:   runClientesList,
	}
	clientesCrearCmd = &cobra.Command{
		Use:   "crear",
		Short: "Crea un cliente nuevo",
		Run:   runClientesCrear,
	}
	clientesEditarCmd = &cobra.Command{
		Use:   "editar [id]",
		Short: "Actualiza un cliente existente",
		Args:  cobra.ExactArgs(1),
		Run:   runClientesEditar,
	}
	clientesEliminarCmd = &cobra.Command{
		Use:   "eliminar [id]",
		Short: "Elimina un cliente",
		Args:  cobra.ExactArgs(1),
		Run:   runClientesEliminar,
	}
)

func init() {
	clientesListCmd.Flags().IntVar(&clientesListOpts.page, "pagina", 1, "Página a mostrar")
	clientesListCmd.Flags().StringArrayVar(&clientesListOpts.filters, "filtro", nil, "Filtro clave=valor (repetible)")
	clientesListCmd.Flags().StringVar(&clientesListOpts.search, "buscar", "", "Búsqueda de texto libre")

	for _, c := range []*cobra.Command{clientesCrearCmd, clientesEditarCmd} {
		c.Flags().StringVar(&clienteForm.Nombre, "nombre", "", "Nombre")
		c.Flags().StringVar(&clienteForm.Apellido, "apellido", "", "Apellido")
		c.Flags().StringVar(&clienteForm.Cedula, "cedula", "", "Cédula de identidad")
		c.Flags().StringVar(&clienteForm.Telefono, "telefono", "", "Teléfono")
		c.Flags().StringVar(&clienteForm.Email, "email", "", "Correo electrónico")
		c.Flags().StringVar(&clienteForm.Direccion, "direccion", "", "Dirección")
		c.Flags().StringVar(&clienteForm.FechaNacimiento, "nacimiento", "", "Fecha de nacimiento (dd/mm/aaaa)")
	}

	rootCmd.AddCommand(clientesCmd)
	clientesCmd.AddCommand(clientesListCmd)
	clientesCmd.AddCommand(clientesCrearCmd)
	clientesCmd.AddCommand(clientesEditarCmd)
	clientesCmd.AddCommand(clientesEliminarCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runClientesList(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	headers := []string{"ID", "NOMBRE", "CÉDULA", "EMAIL", "TELÉFONO", "REGISTRO"}
	runEntityList(app, entity.TypeCliente, clientesListOpts, headers,
		func(c entity.Cliente) []string {
			return []string{
				itoa(c.ID),
				c.Nombre + " " + c.Apellido,
				c.Cedula,
				c.Email,
				deref(c.Telefono),
				app.fecha(c.FechaRegistro),
			}
		})
}

func runClientesCrear(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	submitForm(app, clienteForm, "Cliente")
}

func runClientesEditar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	id := parseID(app, args[0])
	app.Forms.StartEdit(entity.TypeCliente, id)
	submitForm(app, clienteForm, "Cliente")
}

func runClientesEliminar(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	runEntityDelete(app, entity.TypeCliente, parseID(app, args[0]), "Cliente")
}
