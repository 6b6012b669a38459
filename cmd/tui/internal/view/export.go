package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

const exportTimeout = 2 * time.Minute

// exportInput holds the form bindings. It is shared by every copy of the model.
type exportInput struct {
	year string
	path string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	reports       *taxprep.Service

	state exportState
	err   error

	form    *huh.Form
	input   *exportInput
	spinner spinner.Model

	written string
	summary string
}

func NewExportModel(svc *export.Service, reports *taxprep.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	in := &exportInput{year: strconv.Itoa(time.Now().Year()), path: "./exports"}

	return ExportModel{
		exportService: svc,
		reports:       reports,
		form:          buildExportForm(in),
		input:         in,
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Tax Report" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The form validated the year already.
	year, _ := strconv.Atoi(m.input.year)

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(year, m.input.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildExportForm(in *exportInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("year").
				Title("Tax Year").
				Value(&in.year).
				Validate(validateYear),
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&in.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateYear(s string) error {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return fmt.Errorf("enter a four digit year")
	}

	return nil
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return panelStyle.Render(m.form.View())

	case exportStateExporting:
		return panelStyle.Render(fmt.Sprintf("%s Building the %s workbook...", m.spinner.View(), m.input.year))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return panelStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := successStyle.Bold(true).Render("Export Complete!")

	return panelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Wrote "+m.written,
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	path string
	body string
	err  error
}

func (m ExportModel) runExportCmd(year int, dir string) tea.Cmd {
	svc := m.exportService
	reports := m.reports

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(baseCtx, exportTimeout)
		defer cancel()

		path, err := svc.Export(ctx, year, dir)
		if err != nil {
			return exportResultMsg{err: err}
		}

		report, err := reports.Report(ctx, year)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, body: export.GenerateSummary(report)}
	}
}
