package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
)

type dashboardState int

const (
	dashboardStatePick dashboardState = iota
	dashboardStateLoading
	dashboardStateShow
)

// DashboardModel shows totals since the start of the picked timeframe. The
// end of the timeframe is ignored because the window is open ended.
type DashboardModel struct {
	CommonModel
	dashboard *dashboard.Service

	state   dashboardState
	picker  TimeframePicker
	summary *dashboard.Summary
	err     error
}

func NewDashboardModel(svc *dashboard.Service) DashboardModel {
	return DashboardModel{
		dashboard: svc,
		picker:    NewTimeframePicker(TimeframeThisMonth),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateShow {
		return "Esc: pick another timeframe | r: refresh"
	}

	return "Esc: back | Enter: select"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = dashboardStateLoading
		return m, m.loadCmd(msg.Start)

	case dashboardMsg:
		m.state = dashboardStateShow
		m.summary = msg.summary
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case dashboardStatePick:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case dashboardStateShow:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = dashboardStatePick
				return m, m.picker.Reset()
			case "r":
				if m.summary != nil {
					m.state = dashboardStateLoading
					return m, m.loadCmd(m.summary.WindowStart)
				}
			}
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStatePick:
		return panelStyle.Render(m.picker.View())
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return panelStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.summary

	since := "the beginning"
	if !s.WindowStart.IsZero() {
		since = FormatDate(s.WindowStart)
	}

	var totals strings.Builder
	fmt.Fprintf(&totals, "Since %s\n\n", activeStyle(since))
	fmt.Fprintf(&totals, "Income:   %s\n", successStyle.Render(FormatAmount(s.IncomeTotal)))
	fmt.Fprintf(&totals, "Expenses: %s\n", errorStyle.Render(FormatAmount(s.ExpenseTotal)))
	fmt.Fprintf(&totals, "Net:      %s", FormatAmount(s.Net))

	recent := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Date", "Property", "Vendor", "Category", "Amount")

	for _, tx := range s.Recent {
		recent.Row(
			FormatDate(tx.Date),
			tx.PropertyName,
			deref(tx.Vendor),
			string(taxcategory.Normalize(tx.Category)),
			FormatAmount(tx.Amount),
		)
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		totals.String(),
		"",
		faintStyle.Render("Recent transactions"),
		recent.Render(),
	))
}

type dashboardMsg struct {
	summary *dashboard.Summary
	err     error
}

func (m DashboardModel) loadCmd(windowStart time.Time) tea.Cmd {
	svc := m.dashboard

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sum, err := svc.Summarize(ctx, windowStart)

		return dashboardMsg{summary: sum, err: err}
	}
}
