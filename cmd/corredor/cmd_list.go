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
	"os"
	"strconv"

	"github.com/miinsurtech/corredor/pkg/api"
	"github.com/miinsurtech/corredor/pkg/apierr"
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/forms"
	"github.com/miinsurtech/corredor/pkg/listsync"
	"github.com/miinsurtech/corredor/pkg/ux"
)

// listOptions carries the shared list flags of every noun command.
type listOptions struct {
	page    int
	filters []string
	search  string
}

// runEntityList drives one paged listing through a list-sync
// controller: filters first (which resets to page one), then the
// requested page, then a render of whatever state the controller
// settled on.
func runEntityList[T any](app *App, typ entity.Type, opts listOptions, headers []string, row func(T) []string) {
	requireAuth(app)

	filters, err := parseFilters(opts.filters)
	if err != nil {
		fail(app, err)
	}
	if opts.search != "" {
		filters["search"] = opts.search
	}

	ctx := context.Background()
	ctrl := listsync.New(listsync.Config[T]{
		Fetch: func(ctx context.Context, q api.ListQuery) (api.ListResult[T], error) {
			return api.List[T](ctx, app.API, typ, q)
		},
		Authorized: app.Session.Authenticated,
		Logger:     app.Logger.Slog(),
	})

	ctrl.SetFilters(ctx, filters)
	if opts.page > 1 {
		ctrl.SetPage(ctx, opts.page)
	}

	st := ctrl.State()
	if st.Err != nil {
		fail(app, st.Err)
	}
	if len(st.Items) == 0 {
		ux.Muted("Sin registros.")
		return
	}

	rows := make([][]string, 0, len(st.Items))
	for _, item := range st.Items {
		rows = append(rows, row(item))
	}
	renderTable(headers, rows)
	fmt.Println(ux.PageFooter(st.Page, ctrl.MaxPage(), st.Total))
}

// runEntityDelete removes one record and reports the cascade result.
func runEntityDelete(app *App, typ entity.Type, id int64, label string) {
	requireAuth(app)

	if err := app.Forms.Delete(context.Background(), typ, id); err != nil {
		fail(app, err)
	}
	ux.Success(fmt.Sprintf("%s %d eliminado.", label, id))
}

// submitForm runs one create or update through the orchestrator and
// reports field errors one per line, whether they were caught locally
// or came back from the server.
func submitForm(app *App, f forms.Form, label string) {
	requireAuth(app)

	var out struct {
		ID int64 `json:"id"`
	}
	err := app.Forms.Submit(context.Background(), f, &out)
	if err == nil {
		ux.Success(fmt.Sprintf("%s guardado (id %d).", label, out.ID))
		return
	}

	if verr, ok := apierr.AsValidation(err); ok {
		ux.Error("datos inválidos:")
		for _, fe := range verr.Fields {
			ux.Info(fe.String())
		}
		app.Close()
		os.Exit(1)
	}
	if aerr, ok := apierr.AsAPI(err); ok && len(aerr.Fields) > 0 {
		ux.Error("el servidor rechazó los datos:")
		for _, fe := range aerr.Fields {
			ux.Info(fe.String())
		}
		app.Close()
		os.Exit(1)
	}
	fail(app, err)
}

// parseID converts a positional argument into a record id.
func parseID(app *App, arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fail(app, fmt.Errorf("id inválido %q", arg))
	}
	return id
}
