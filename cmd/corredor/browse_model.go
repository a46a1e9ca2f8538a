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
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/miinsurtech/corredor/pkg/api"
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/listsync"
	"github.com/miinsurtech/corredor/pkg/ux"
)

// =============================================================================
// Tabs
// =============================================================================

// browseTab wraps one list-sync controller behind a non-generic
// surface the model can hold in a slice. The closures capture the
// typed controller.
type browseTab struct {
	typ     entity.Type
	title   string
	columns []table.Column

	refresh   func(ctx context.Context)
	nextPage  func(ctx context.Context)
	prevPage  func(ctx context.Context)
	setSearch func(ctx context.Context, term string)
	onDeleted func(ctx context.Context)
	state     func() (rows []table.Row, page, maxPage, total int, loading bool, err error)
}

func newBrowseTab[T any](app *App, typ entity.Type, title string, columns []table.Column, row func(T) table.Row) *browseTab {
	ctrl := listsync.New(listsync.Config[T]{
		Fetch: func(ctx context.Context, q api.ListQuery) (api.ListResult[T], error) {
			return api.List[T](ctx, app.API, typ, q)
		},
		Authorized: app.Session.Authenticated,
		Logger:     app.Logger.Slog(),
	})

	return &browseTab{
		typ:     typ,
		title:   title,
		columns: columns,
		refresh: func(ctx context.Context) { ctrl.Refresh(ctx) },
		nextPage: func(ctx context.Context) {
			ctrl.SetPage(ctx, ctrl.State().Page+1)
		},
		prevPage: func(ctx context.Context) {
			ctrl.SetPage(ctx, ctrl.State().Page-1)
		},
		setSearch: func(ctx context.Context, term string) {
			if term == "" {
				ctrl.ClearFilters(ctx)
				return
			}
			ctrl.SetFilters(ctx, map[string]string{"search": term})
		},
		onDeleted: func(ctx context.Context) { ctrl.OnDeleted(ctx) },
		state: func() ([]table.Row, int, int, int, bool, error) {
			st := ctrl.State()
			rows := make([]table.Row, 0, len(st.Items))
			for _, item := range st.Items {
				rows = append(rows, row(item))
			}
			return rows, st.Page, ctrl.MaxPage(), st.Total, st.Loading, st.Err
		},
	}
}

// refresher adapts the tab for the invalidation bus, so a mutation to
// a related entity reloads this view while it is mounted.
func (t *browseTab) refresher() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		t.refresh(ctx)
		_, _, _, _, _, err := t.state()
		return err
	}
}

func browseTabs(app *App) []*browseTab {
	return []*browseTab{
		newBrowseTab(app, entity.TypeCliente, "Clientes",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Nombre", Width: 24},
				{Title: "Cédula", Width: 12},
				{Title: "Email", Width: 26},
			},
			func(c entity.Cliente) table.Row {
				return table.Row{itoa(c.ID), c.Nombre + " " + c.Apellido, c.Cedula, c.Email}
			}),
		newBrowseTab(app, entity.TypePoliza, "Pólizas",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Número", Width: 14},
				{Title: "Tipo", Width: 12},
				{Title: "Estado", Width: 10},
				{Title: "Prima", Width: 14},
				{Title: "Vence", Width: 12},
			},
			func(p entity.Poliza) table.Row {
				return table.Row{
					itoa(p.ID), p.NumeroPoliza, p.TipoPoliza, p.Estado,
					app.dinero(p.Prima), app.fecha(p.FechaFin),
				}
			}),
		newBrowseTab(app, entity.TypeReclamacion, "Reclamaciones",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Póliza", Width: 8},
				{Title: "Fecha", Width: 12},
				{Title: "Estado", Width: 10},
				{Title: "Reclamado", Width: 14},
			},
			func(r entity.Reclamacion) table.Row {
				return table.Row{
					itoa(r.ID), itoa(r.PolizaID), app.fecha(r.FechaReclamacion),
					r.Estado, app.dineroOpt(r.MontoReclamado),
				}
			}),
		newBrowseTab(app, entity.TypeEmpresaAseguradora, "Aseguradoras",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Nombre", Width: 28},
				{Title: "RIF", Width: 14},
				{Title: "Teléfono", Width: 14},
			},
			func(e entity.EmpresaAseguradora) table.Row {
				return table.Row{itoa(e.ID), e.Nombre, e.RIF, deref(e.Telefono)}
			}),
		newBrowseTab(app, entity.TypeAsesor, "Asesores",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Nombre", Width: 24},
				{Title: "Cédula", Width: 12},
				{Title: "Email", Width: 26},
			},
			func(a entity.Asesor) table.Row {
				return table.Row{itoa(a.ID), a.Nombre + " " + a.Apellido, a.Cedula, a.Email}
			}),
		newBrowseTab(app, entity.TypeComision, "Comisiones",
			[]table.Column{
				{Title: "ID", Width: 5},
				{Title: "Póliza", Width: 8},
				{Title: "Asesor", Width: 8},
				{Title: "Monto", Width: 14},
				{Title: "Estatus", Width: 10},
			},
			func(c entity.Comision) table.Row {
				return table.Row{
					itoa(c.ID), itoa(c.PolizaID), itoa(c.AsesorID),
					app.dinero(c.Monto), c.EstatusPago,
				}
			}),
	}
}

// =============================================================================
// Key bindings
// =============================================================================

type browseKeys struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Filter   key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "siguiente pestaña"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "pestaña anterior"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "página siguiente"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "página anterior"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "buscar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "eliminar"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recargar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "salir"),
		),
	}
}

// =============================================================================
// Messages
// =============================================================================

// loadedMsg reports that a controller finished a fetch for typ. The
// model re-reads the controller state; stale fetches were already
// discarded by the controller itself.
type loadedMsg struct {
	typ entity.Type
}

// deletedMsg reports the outcome of a delete. The cascade to related
// mounted views already ran through the bus by the time it arrives.
type deletedMsg struct {
	typ entity.Type
	id  int64
	err error
}

// =============================================================================
// Model
// =============================================================================

type browseMode int

const (
	modeNormal browseMode = iota
	modeFilter
	modeConfirmDelete
)

type browseModel struct {
	app    *App
	tabs   []*browseTab
	active int
	table  table.Model
	keys   browseKeys
	width  int

	mode          browseMode
	filterInput   textinput.Model
	pendingDelete int64
	notice        string
}

func newBrowseModel(app *App) *browseModel {
	tabs := browseTabs(app)

	t := table.New(
		table.WithColumns(tabs[0].columns),
		table.WithFocused(true),
		table.WithHeight(listsync.DefaultPageSize+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(ux.ColorNavyBright).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ux.ColorNavyDeep).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ux.ColorNavyPrimary)
	t.SetStyles(styles)

	input := textinput.New()
	input.Placeholder = "buscar…"
	input.CharLimit = 80

	m := &browseModel{
		app:         app,
		tabs:        tabs,
		table:       t,
		keys:        defaultBrowseKeys(),
		filterInput: input,
	}
	app.Bus.Mount(tabs[0].typ, tabs[0].refresher())
	return m
}

func (m *browseModel) current() *browseTab { return m.tabs[m.active] }

// loadCmd runs the fetch off the event loop and reports back.
func (m *browseModel) loadCmd(op func(ctx context.Context), typ entity.Type) tea.Cmd {
	return func() tea.Msg {
		op(context.Background())
		return loadedMsg{typ: typ}
	}
}

// deleteCmd removes the record through the form orchestrator, which
// notifies the bus, then resets this view's pagination.
func (m *browseModel) deleteCmd(tab *browseTab, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.app.Forms.Delete(ctx, tab.typ, id); err != nil {
			return deletedMsg{typ: tab.typ, id: id, err: err}
		}
		tab.onDeleted(ctx)
		return deletedMsg{typ: tab.typ, id: id}
	}
}

func (m *browseModel) Init() tea.Cmd {
	tab := m.current()
	return m.loadCmd(tab.refresh, tab.typ)
}

// switchTab moves the bus mount to the newly visible view.
func (m *browseModel) switchTab(delta int) tea.Cmd {
	prev := m.current()
	m.app.Bus.Unmount(prev.typ)

	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	tab := m.current()
	m.app.Bus.Mount(tab.typ, tab.refresher())

	m.table.SetColumns(tab.columns)
	m.syncRows()
	return m.loadCmd(tab.refresh, tab.typ)
}

// syncRows copies the controller state into the visible table.
func (m *browseModel) syncRows() {
	rows, _, _, _, _, _ := m.current().state()
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// selectedID reads the id cell of the highlighted row.
func (m *browseModel) selectedID() (int64, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case loadedMsg:
		if msg.typ == m.current().typ {
			m.syncRows()
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("no se pudo eliminar %d: %v", msg.id, msg.err)
		} else {
			m.notice = fmt.Sprintf("registro %d eliminado", msg.id)
		}
		if msg.typ == m.current().typ {
			m.syncRows()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}

		tab := m.current()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.app.Bus.Unmount(tab.typ)
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			return m, m.switchTab(1)
		case key.Matches(msg, m.keys.PrevTab):
			return m, m.switchTab(-1)
		case key.Matches(msg, m.keys.NextPage):
			return m, m.loadCmd(tab.nextPage, tab.typ)
		case key.Matches(msg, m.keys.PrevPage):
			return m, m.loadCmd(tab.prevPage, tab.typ)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadCmd(tab.refresh, tab.typ)
		case key.Matches(msg, m.keys.Filter):
			m.mode = modeFilter
			m.notice = ""
			m.filterInput.SetValue("")
			m.filterInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Delete):
			if id, ok := m.selectedID(); ok {
				m.mode = modeConfirmDelete
				m.pendingDelete = id
				m.notice = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.filterInput.Blur()
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.filterInput.Blur()
		term := m.filterInput.Value()
		tab := m.current()
		return m, m.loadCmd(func(ctx context.Context) {
			tab.setSearch(ctx, term)
		}, tab.typ)
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *browseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "y", "s":
		return m, m.deleteCmd(m.current(), m.pendingDelete)
	}
	m.notice = "eliminación cancelada"
	return m, nil
}

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ux.ColorMuted)
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(ux.ColorNavyBright).
			Underline(true)
)

func (m *browseModel) View() string {
	var tabBar []string
	for i, tab := range m.tabs {
		if i == m.active {
			tabBar = append(tabBar, activeTabStyle.Render(tab.title))
		} else {
			tabBar = append(tabBar, tabStyle.Render(tab.title))
		}
	}

	_, page, maxPage, total, loading, err := m.current().state()
	footer := ux.PageFooter(page, maxPage, total)
	switch {
	case loading:
		footer += ux.Styles.Muted.Render("  cargando…")
	case err != nil:
		footer += "  " + ux.Styles.Error.Render(fmt.Sprintf("error: %v", err))
	case m.notice != "":
		footer += "  " + ux.Styles.Muted.Render(m.notice)
	}

	var prompt string
	switch m.mode {
	case modeFilter:
		prompt = "buscar: " + m.filterInput.View()
	case modeConfirmDelete:
		prompt = ux.Styles.Warning.Render(
			fmt.Sprintf("¿eliminar el registro %d? (y/n)", m.pendingDelete))
	default:
		prompt = ux.Styles.Muted.Render("tab cambiar · n/p páginas · / buscar · d eliminar · r recargar · q salir")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabBar...),
		m.table.View(),
		footer,
		prompt,
	)
}
