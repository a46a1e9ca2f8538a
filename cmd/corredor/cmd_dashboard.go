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
	"sort"
	"strings"

	"github.com/miinsurtech/corredor/pkg/api"
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Resumen de la cartera: totales, estados y vencimientos",
	Long: `Muestra el resumen estadístico de la correduría junto con las
			pólizas próximas a vencer. Ambas consultas se hacen en
			paralelo; si una falla la otra se muestra igualmente.`,
	Run: runDashboard,
}

func init() {
	dashboardCmd.Flags().IntVar(&vencimientosDias, "dias", api.DefaultExpirationWindow,
		"Ventana de vencimiento en días")
	rootCmd.AddCommand(dashboardCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runDashboard(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	ctx := context.Background()
	var (
		summary    *entity.StatisticsSummary
		expiring   []entity.Poliza
		summaryErr error
		expireErr  error
	)

	// Both views are independent; a failing one must not hide the
	// other.
	var g errgroup.Group
	g.Go(func() error {
		summary, summaryErr = app.API.StatisticsSummary(ctx)
		return nil
	})
	g.Go(func() error {
		expiring, expireErr = app.API.UpcomingExpirations(ctx, vencimientosDias)
		return nil
	})
	g.Wait()

	if summaryErr != nil {
		ux.Error(fmt.Sprintf("resumen no disponible: %v", summaryErr))
	} else {
		renderSummary(app, summary)
	}

	fmt.Println()
	if expireErr != nil {
		ux.Error(fmt.Sprintf("vencimientos no disponibles: %v", expireErr))
		return
	}
	if len(expiring) == 0 {
		ux.Success(fmt.Sprintf("Ninguna póliza vence en los próximos %d días.", vencimientosDias))
		return
	}
	ux.Warning(fmt.Sprintf("%d pólizas vencen en los próximos %d días", len(expiring), vencimientosDias))
	rows := make([][]string, 0, len(expiring))
	row := polizaRow(app)
	for _, p := range expiring {
		rows = append(rows, row(p))
	}
	renderTable(polizaHeaders, rows)
}

func renderSummary(app *App, s *entity.StatisticsSummary) {
	ux.Title("Resumen de la cartera")
	renderTable(
		[]string{"CLIENTES", "PÓLIZAS", "RECLAMACIONES", "ASEGURADORAS", "ASESORES"},
		[][]string{{
			fmt.Sprintf("%d", s.TotalClientes),
			fmt.Sprintf("%d", s.TotalPolizas),
			fmt.Sprintf("%d", s.TotalReclamaciones),
			fmt.Sprintf("%d", s.TotalEmpresasAseguradoras),
			fmt.Sprintf("%d", s.TotalAsesores),
		}},
	)

	fmt.Println()
	ux.Info("Primas activas: " + ux.Amount(app.Prefs.CurrencySymbol, s.TotalPrimasActivas))
	ux.Info("Comisiones: " + ux.Amount(app.Prefs.CurrencySymbol, s.TotalComisiones))
	ux.Info("Monto reclamado: " + ux.Amount(app.Prefs.CurrencySymbol, s.TotalMontoReclamado))
	ux.Info("Monto aprobado: " + ux.Amount(app.Prefs.CurrencySymbol, s.TotalMontoAprobado))

	if len(s.PolizasPorEstado) > 0 {
		fmt.Println()
		ux.Muted("Pólizas por estado: " + countsLine(s.PolizasPorEstado))
	}
	if len(s.ReclamacionesPorEstado) > 0 {
		ux.Muted("Reclamaciones por estado: " + countsLine(s.ReclamacionesPorEstado))
	}
}

// countsLine renders a state-count map in stable order.
func countsLine(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
