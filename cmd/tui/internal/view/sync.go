package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
)

const syncTimeout = 15 * time.Minute

type syncState int

const (
	syncStateSelect syncState = iota
	syncStateRunning
	syncStateResult
)

type syncAction int

const (
	actionSync syncAction = iota
	actionAnalyzePending
)

func (a syncAction) String() string {
	if a == actionAnalyzePending {
		return "Analyze statements that have no transactions"
	}

	return "Sync the source folder"
}

type SyncModel struct {
	CommonModel
	ingest *ingest.Service
	folder string

	state   syncState
	actions []syncAction
	cursor  int
	spinner spinner.Model

	report    *ingest.Report
	errorList list.Model
	err       error
}

// NewSyncModel imports statements from folder through svc.
func NewSyncModel(svc *ingest.Service, folder string) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SyncModel{
		ingest:  svc,
		folder:  folder,
		actions: []syncAction{actionSync, actionAnalyzePending},
		spinner: s,
	}
}

func (m SyncModel) Title() string { return "Sync Statements" }

func (m SyncModel) ShortHelp() string {
	switch m.state {
	case syncStateRunning:
		return "Working..."
	case syncStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: run"
}

func (m SyncModel) Init() tea.Cmd {
	return nil
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == syncStateSelect {
			return m.updateSelect(msg)
		}

	case syncResultMsg:
		m.state = syncStateResult
		m.err = msg.err
		m.report = msg.report

		if msg.report != nil && len(msg.report.Errors) > 0 {
			m.errorList = newErrorList(msg.report.Errors)
		}

		return m, nil
	}

	switch m.state {
	case syncStateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case syncStateResult:
		if m.report != nil && len(m.report.Errors) > 0 {
			var cmd tea.Cmd
			m.errorList, cmd = m.errorList.Update(msg)

			return m, cmd
		}
	}

	return m, nil
}

func (m SyncModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case syncStateRunning:
		return m, nil
	case syncStateResult:
		m.state = syncStateSelect
		m.report = nil
		m.err = nil

		return m, nil
	}

	return m, Back
}

func (m SyncModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		m.state = syncStateRunning
		return m, tea.Batch(m.spinner.Tick, m.runCmd(m.actions[m.cursor]))
	}

	return m, nil
}

func (m SyncModel) View() string {
	switch m.state {
	case syncStateSelect:
		return m.viewSelect()
	case syncStateRunning:
		return panelStyle.Render(fmt.Sprintf("%s %s...", m.spinner.View(), m.actions[m.cursor]))
	case syncStateResult:
		return m.viewResult()
	}

	return ""
}

func (m SyncModel) viewSelect() string {
	s := fmt.Sprintf("Source folder: %s\n\n", activeStyle(m.folder))

	for i, a := range m.actions {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, a)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m SyncModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	r := m.report
	totals := fmt.Sprintf(
		"Discovered: %d\nStatements created: %d\nTransactions created: %d\nFlagged for review: %d\nSkipped: %d",
		r.Discovered, r.StatementsCreated, r.TransactionsCreated, r.Flagged, r.Skipped,
	)

	header := successStyle.Render("Done")
	if r.Failed() {
		header = errorStyle.Render(fmt.Sprintf("Done with %d failed documents", len(r.Errors)))
	}

	parts := []string{header, "", totals}
	if r.Failed() {
		parts = append(parts, "", m.errorList.View())
	}

	return lipgloss.NewStyle().Padding(2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Messages

type syncResultMsg struct {
	report *ingest.Report
	err    error
}

func (m SyncModel) runCmd(action syncAction) tea.Cmd {
	svc := m.ingest
	folder := m.folder

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(baseCtx, syncTimeout)
		defer cancel()

		var (
			report *ingest.Report
			err    error
		)

		switch action {
		case actionAnalyzePending:
			report, err = svc.AnalyzePending(ctx)
		default:
			report, err = svc.Sync(ctx, folder)
		}

		return syncResultMsg{report: report, err: err}
	}
}

// Failed document list

type documentErrorItem struct {
	ingest.DocumentError
}

func (i documentErrorItem) Title() string       { return i.Document }
func (i documentErrorItem) Description() string { return i.Error }
func (i documentErrorItem) FilterValue() string { return i.Document }

type documentErrorDelegate struct{}

func (d documentErrorDelegate) Height() int                             { return 2 }
func (d documentErrorDelegate) Spacing() int                            { return 0 }
func (d documentErrorDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d documentErrorDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(documentErrorItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s\n    %s", cursor, item.Document, errorStyle.Render(item.Error))
}

func newErrorList(errs []ingest.DocumentError) list.Model {
	items := make([]list.Item, len(errs))
	for i, e := range errs {
		items[i] = documentErrorItem{DocumentError: e}
	}

	l := list.New(items, documentErrorDelegate{}, 80, 12)
	l.Title = "Failed Documents"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}
