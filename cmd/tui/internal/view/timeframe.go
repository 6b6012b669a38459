package view

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = 0
	TimeframeLastMonth Timeframe = 1
	TimeframeThisYear  Timeframe = 2
	TimeframeLastYear  Timeframe = 3
	TimeframeAll       Timeframe = 4
	TimeframeCustom    Timeframe = 5
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Since a Date"
	}

	return "Unknown"
}

// timeframeRange returns the [start, end) dates of tf relative to now. Both
// are zero for TimeframeAll and TimeframeCustom.
func timeframeRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()

	switch tf {
	case TimeframeThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case TimeframeLastMonth:
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case TimeframeThisYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
	case TimeframeLastYear:
		return time.Date(y-1, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg is emitted when the user has picked a range. End is
// exclusive and zero when the range is open ended. Start and End are both
// zero when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// timeframeInput holds the form bindings.
type timeframeInput struct {
	frame Timeframe
	since string
}

func (in *timeframeInput) selected(now time.Time) TimeframeSelectedMsg {
	switch in.frame {
	case TimeframeAll:
		return TimeframeSelectedMsg{All: true}
	case TimeframeCustom:
		// validated by the form
		start, _ := time.Parse(time.DateOnly, in.since)
		return TimeframeSelectedMsg{Start: start}
	}

	start, end := timeframeRange(in.frame, now)

	return TimeframeSelectedMsg{Start: start, End: end}
}

func validateSince(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// TimeframePicker is a form for choosing a date range. It emits a
// TimeframeSelectedMsg once completed.
type TimeframePicker struct {
	minFrame Timeframe
	input    *timeframeInput
	form     *huh.Form
}

// NewTimeframePicker offers every timeframe from minFrame on.
func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	p := TimeframePicker{minFrame: minFrame}
	p.build()

	return p
}

func (p *TimeframePicker) build() {
	in := &timeframeInput{frame: p.minFrame}

	var opts []huh.Option[Timeframe]
	for tf := p.minFrame; tf <= TimeframeCustom; tf++ {
		opts = append(opts, huh.NewOption(tf.String(), tf))
	}

	p.input = in
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().
				Title("Timeframe").
				Options(opts...).
				Value(&in.frame),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Since").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&in.since).
				Validate(validateSince),
		).WithHideFunc(func() bool { return in.frame != TimeframeCustom }),
	).WithWidth(40).WithShowHelp(false)
}

func (p TimeframePicker) Init() tea.Cmd {
	return p.form.Init()
}

func (p TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	sel := p.input.selected(time.Now())

	return p, func() tea.Msg { return sel }
}

func (p TimeframePicker) View() string {
	return p.form.View()
}

// Reset starts the picker over and returns the command that focuses it.
func (p *TimeframePicker) Reset() tea.Cmd {
	p.build()
	return p.form.Init()
}
