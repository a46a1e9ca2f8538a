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

	"github.com/charmbracelet/huh"
	"github.com/miinsurtech/corredor/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	loginUsername string
	loginPassword string
	registerEmail string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión contra el backend",
		Long: `Solicita un token al backend y lo persiste localmente.
				Las credenciales pueden pasarse por flags o introducirse
				en el formulario interactivo.`,
		Run: runLogin,
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión local",
		Run:   runLogout,
	}

	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión activa",
		Run:   runWhoami,
	}

	registerCmd = &cobra.Command{
		Use:   "registro [usuario]",
		Short: "Registra una cuenta nueva",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRegister,
	}
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "usuario", "u", "", "Nombre de usuario")
	loginCmd.Flags().StringVarP(&loginPassword, "contrasena", "p", "", "Contraseña")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Correo electrónico de la cuenta")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

// credentialsForm prompts for whichever of username/password was not
// given by flag.
func credentialsForm(username, password *string) error {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Usuario").
			Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Contraseña").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runLogin(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	username, password := loginUsername, loginPassword
	if err := credentialsForm(&username, &password); err != nil {
		fail(app, err)
	}

	ctx := context.Background()
	var userName string
	err := ux.WithSpinner("Iniciando sesión", func() error {
		user, err := app.Session.Login(ctx, username, password)
		if err != nil {
			return err
		}
		userName = user.Username
		return nil
	})
	if err != nil {
		// WithSpinner already printed the error.
		ux.Muted("Verifique sus credenciales y la URL del backend (" + app.API.BaseURL() + ").")
		return
	}
	ux.Success(fmt.Sprintf("Sesión iniciada como %s", userName))
}

func runLogout(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	if !app.Session.Authenticated() {
		ux.Muted("No había sesión activa.")
		return
	}
	app.Session.Logout()
	ux.Success("Sesión cerrada.")
}

func runWhoami(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()
	requireAuth(app)

	s := app.Session.Current()
	if s.User != nil {
		ux.Title(s.User.Username)
		ux.Info(fmt.Sprintf("id: %d", s.User.ID))
		ux.Info(fmt.Sprintf("email: %s", s.User.Email))
		return
	}
	// Token restored but the user record never round-tripped; ask the
	// backend directly.
	user, err := app.API.CurrentUser(context.Background())
	if err != nil {
		fail(app, err)
	}
	ux.Title(user.Username)
	ux.Info(fmt.Sprintf("id: %d", user.ID))
	ux.Info(fmt.Sprintf("email: %s", user.Email))
}

func runRegister(cmd *cobra.Command, args []string) {
	app := mustApp()
	defer app.Close()

	var username string
	if len(args) == 1 {
		username = args[0]
	}
	email := registerEmail
	var password string

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().Title("Usuario").Value(&username))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&email))
	}
	fields = append(fields, huh.NewInput().
		Title("Contraseña").
		EchoMode(huh.EchoModePassword).
		Value(&password))
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		fail(app, err)
	}

	user, err := app.API.Register(context.Background(), username, email, password)
	if err != nil {
		fail(app, err)
	}
	ux.Success(fmt.Sprintf("Cuenta %s creada (id %d). Ejecute `corredor login` para entrar.", user.Username, user.ID))
}
