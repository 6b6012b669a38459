package view

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
)

type stState int

const (
	stStateList stState = iota
	stStateConfirmReset
	stStateWorking
)

// stItem wraps a statement summary to implement list.Item.
type stItem struct {
	st *statement.Summary
}

func (i stItem) Title() string {
	return fmt.Sprintf("%s  %s", FormatDate(i.st.Date), i.st.FileName)
}

func (i stItem) Description() string {
	d := fmt.Sprintf("%s · %d transactions", i.st.PropertyName, i.st.TransactionCount)
	if i.st.NeedsAnalysis() {
		d += " · needs analysis"
	}

	return d
}

func (i stItem) FilterValue() string { return i.st.FileName }

type StatementsModel struct {
	CommonModel
	statements *statement.Service
	ingest     *ingest.Service

	state    stState
	list     list.Model
	form     *huh.Form
	selected *statement.Summary
	confirm  *bool

	loading bool
	status  string
}

func NewStatementsModel(statements *statement.Service, svc *ingest.Service) StatementsModel {
	l := list.New([]list.Item{}, stItemDelegate{}, 0, 0)
	l.Title = "Statements"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return StatementsModel{
		statements: statements,
		ingest:     svc,
		list:       l,
		loading:    true,
	}
}

func (m StatementsModel) Title() string { return "Statements" }

func (m StatementsModel) ShortHelp() string {
	switch m.state {
	case stStateConfirmReset:
		return "Esc: cancel | Enter: confirm"
	case stStateWorking:
		return "Working..."
	}

	return "Esc: back | a: analyze | x: reset | r: refresh | /: filter"
}

func (m StatementsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StatementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatementsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.statements))
		for i, st := range msg.statements {
			items[i] = stItem{st: st}
		}

		m.list.SetItems(items)

		if len(items) == 0 {
			m.status = "No statements yet. Run a sync first."
		}

		return m, nil

	case statementActionMsg:
		m.state = stStateList
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case stStateList:
		return m.updateList(msg)
	case stStateConfirmReset:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m StatementsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			if st := m.current(); st != nil {
				m.state = stStateWorking
				m.status = ""

				return m, m.analyzeCmd(st)
			}
		case "x":
			if st := m.current(); st != nil {
				return m.startReset(st)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m StatementsModel) current() *statement.Summary {
	item, ok := m.list.SelectedItem().(stItem)
	if !ok {
		return nil
	}

	return item.st
}

func (m StatementsModel) startReset(st *statement.Summary) (tea.Model, tea.Cmd) {
	m.selected = st
	m.confirm = new(false)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("reset").
				Title(fmt.Sprintf("Delete the %d transactions of %s?", st.TransactionCount, st.FileName)).
				Description("The statement and its text are kept so it can be analyzed again.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = stStateConfirmReset

	return m, m.form.Init()
}

func (m StatementsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = stStateList
		m.form = nil

		return m, nil
	}

	m.state = stStateWorking

	return m, m.resetCmd(m.selected)
}

func (m StatementsModel) View() string {
	switch m.state {
	case stStateConfirmReset:
		return panelStyle.Render(m.form.View())
	case stStateWorking:
		return lipgloss.NewStyle().Padding(2).Render("Working...")
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading statements...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = faintStyle.Render(m.status) + "\n"
	}

	return panelStyle.Render(statusLine + m.list.View())
}

// Messages

type loadStatementsMsg struct {
	statements []*statement.Summary
	err        error
}

type statementActionMsg struct {
	status string
	err    error
}

func (m StatementsModel) loadCmd() tea.Cmd {
	svc := m.statements

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sts, err := svc.List(ctx)

		return loadStatementsMsg{statements: sts, err: err}
	}
}

func (m StatementsModel) analyzeCmd(st *statement.Summary) tea.Cmd {
	svc := m.ingest

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(baseCtx, syncTimeout)
		defer cancel()

		res, err := svc.AnalyzeStatement(ctx, st.ID)
		if err != nil {
			return statementActionMsg{err: err}
		}

		return statementActionMsg{
			status: fmt.Sprintf("%s: created %d transactions (%d flagged)", st.FileName, res.TransactionsCreated, res.Flagged),
		}
	}
}

func (m StatementsModel) resetCmd(st *statement.Summary) tea.Cmd {
	svc := m.ingest

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := svc.ResetStatement(ctx, st.ID)
		if err != nil {
			return statementActionMsg{err: err}
		}

		return statementActionMsg{status: fmt.Sprintf("%s: deleted %d transactions", st.FileName, n)}
	}
}

type stItemDelegate struct{}

func (d stItemDelegate) Height() int                             { return 2 }
func (d stItemDelegate) Spacing() int                            { return 0 }
func (d stItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d stItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(stItem)
	if !ok {
		return
	}

	cursor := "  "
	title := i.Title()

	if index == m.Index() {
		cursor = "> "
		title = activeStyle(title)
	}

	desc := faintStyle.Render(i.Description())
	if i.st.NeedsAnalysis() {
		desc = errorStyle.Render(i.Description())
	}

	fmt.Fprintf(w, "%s%s\n    %s", cursor, title, desc)
}
