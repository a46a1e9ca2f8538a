// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	apiURLFlag  string // CLI override for api_url
	verbose     bool   // Debug logging to stderr
	plainOutput bool   // Force unstyled output

	rootCmd = &cobra.Command{
		Use:   "corredor",
		Short: "Consola de administración para corredurías de seguros",
		Long: `Corredor gestiona la cartera de una correduría de seguros:
				clientes, pólizas, reclamaciones, aseguradoras, asesores
				y comisiones, contra el backend de Mi-Insurtech.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plainOutput {
				ux.SetPlain(true)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "",
		"URL del backend (anula config.yaml y CORREDOR_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Registro detallado en stderr")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Salida sin estilos (para scripts)")
}
