package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/rentbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/rentbook/internal/app"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

// logFile receives the TUI's logs since the terminal belongs to the program.
const logFile = "rentbook-tui.log"

type model struct {
	app *app.App

	currentView View

	syncView       view.SyncModel
	statementsView view.StatementsModel
	listView       view.ListModel
	dashboardView  view.DashboardModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu       View = 0
	ViewSync       View = 1
	ViewStatements View = 2
	ViewList       View = 3
	ViewDashboard  View = 4
	ViewExport     View = 5
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		syncView:    view.NewSyncModel(a.Ingest, a.Config.Source.FolderID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.app.Ingest, m.app.Config.Source.FolderID)

				return m, m.syncView.Init()
			case "2":
				m.currentView = ViewStatements
				m.statementsView = view.NewStatementsModel(m.app.Statements, m.app.Ingest)

				return m, m.statementsView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Transactions)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Dashboard)

				return m, m.dashboardView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.TaxPrep)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewStatements:
		var newModel tea.Model
		newModel, cmd = m.statementsView.Update(msg)
		m.statementsView = newModel.(view.StatementsModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Rentbook\n\n" +
				"1. Sync Statements\n" +
				"2. Statements\n" +
				"3. Transactions\n" +
				"4. Dashboard\n" +
				"5. Export Tax Report\n\n" +
				"q. Quit",
		)
	case ViewSync:
		return m.syncView.View()
	case ViewStatements:
		return m.statementsView.View()
	case ViewList:
		return m.listView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	log := logger.NewWithWriter(f).Level(logger.ParseLevel(cfg.Log.Level))
	ctx := logger.WithContext(context.Background(), log)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	view.UseContext(ctx)

	if _, err := tea.NewProgram(initialModel(a), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
