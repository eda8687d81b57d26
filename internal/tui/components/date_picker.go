package components

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MikeBiancalana/datefield/internal/pipeline"
)

var (
	datePickerBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(1, 2)

	datePickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	datePickerPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("40")).
				Italic(true)

	datePickerErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Italic(true)

	datePickerHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// defaultDatePickerWidth fits the help line inside the box padding
const defaultDatePickerWidth = 44

const datePickerHelp = "ESC: cancel  TAB: expand  ENTER: confirm"

// DatePickedMsg is sent when the user confirms a valid date
type DatePickedMsg[D any] struct {
	Value D
	Text  string
}

// DatePickerCancelMsg is sent when the user dismisses the picker
type DatePickerCancelMsg struct{}

// DatePickerOpenedMsg and DatePickerClosedMsg mark visibility changes
type DatePickerOpenedMsg struct{}

type DatePickerClosedMsg struct{}

// DatePicker is a TUI component for entering a date. Text typed into it is
// fed to a pipeline, which decides what it means and whether it is valid.
type DatePicker[D any] struct {
	textInput textinput.Model
	pipeline  *pipeline.Pipeline[D]
	visible   bool
	title     string
	submitted bool
	width     int
}

// NewDatePicker creates a date picker driving p
func NewDatePicker[D any](title string, p *pipeline.Pipeline[D]) *DatePicker[D] {
	a := p.Adapter()
	ti := textinput.New()
	ti.Placeholder = a.Format(a.Today(), p.Formats().Display.DateInput) + ", t, tm, +3d, mon"
	ti.CharLimit = 100
	ti.Width = 28

	return &DatePicker[D]{
		textInput: ti,
		pipeline:  p,
		visible:   false,
		title:     title,
		width:     defaultDatePickerWidth,
	}
}

// Show displays the date picker with the current value and focuses the input
func (dp *DatePicker[D]) Show() tea.Cmd {
	dp.visible = true
	dp.submitted = false
	dp.textInput.SetValue(dp.pipeline.Commit())
	dp.textInput.CursorEnd()
	return tea.Batch(dp.textInput.Focus(), func() tea.Msg { return DatePickerOpenedMsg{} })
}

// Hide hides the date picker. The pipeline keeps its state.
func (dp *DatePicker[D]) Hide() tea.Cmd {
	if !dp.visible {
		return nil
	}
	dp.visible = false
	dp.submitted = false
	dp.textInput.Blur()
	return func() tea.Msg { return DatePickerClosedMsg{} }
}

// IsVisible returns whether the date picker is visible
func (dp *DatePicker[D]) IsVisible() bool {
	return dp.visible
}

// GetValue returns the current input text
func (dp *DatePicker[D]) GetValue() string {
	return dp.textInput.Value()
}

// SetValue assigns a value from the host model, re-rendering the input
func (dp *DatePicker[D]) SetValue(value *D) {
	dp.pipeline.OnProgrammaticSet(value)
	dp.textInput.SetValue(dp.pipeline.DisplayText())
}

// SetPipeline swaps the pipeline, for example after the configuration
// changed. The current value carries over as a model change.
func (dp *DatePicker[D]) SetPipeline(p *pipeline.Pipeline[D]) {
	var carried *D
	if v, ok := dp.pipeline.Value(); ok {
		carried = &v
	}
	dp.pipeline = p
	dp.SetValue(carried)
}

// Pipeline returns the pipeline driven by the picker
func (dp *DatePicker[D]) Pipeline() *pipeline.Pipeline[D] {
	return dp.pipeline
}

// SetWidth sets the width of the date picker
func (dp *DatePicker[D]) SetWidth(width int) {
	dp.width = width
}

// Update handles Bubble Tea messages
func (dp *DatePicker[D]) Update(msg tea.Msg) (*DatePicker[D], tea.Cmd) {
	if !dp.visible {
		return dp, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			return dp, tea.Batch(dp.Hide(), func() tea.Msg { return DatePickerCancelMsg{} })
		case tea.KeyEnter:
			return dp, dp.submit()
		case tea.KeyTab:
			dp.expandShortcut()
			return dp, nil
		}
	}

	before := dp.textInput.Value()
	var cmd tea.Cmd
	dp.textInput, cmd = dp.textInput.Update(msg)
	if after := dp.textInput.Value(); after != before {
		dp.submitted = false
		dp.pipeline.OnUserInput(after)
	}
	return dp, cmd
}

// submit resolves shortcuts, then confirms the value if the pipeline is
// valid. An invalid value keeps the picker open with an error.
func (dp *DatePicker[D]) submit() tea.Cmd {
	dp.expandShortcut()
	dp.submitted = true
	if !dp.pipeline.Valid() {
		return nil
	}

	value, _ := dp.pipeline.Value()
	text := dp.pipeline.Commit()
	dp.textInput.SetValue(text)
	return tea.Batch(dp.Hide(), func() tea.Msg { return DatePickedMsg[D]{Value: value, Text: text} })
}

// expandShortcut replaces a relative shortcut with the date it stands for,
// written so the pipeline reads it back as the same date. A shortcut no
// parse pattern can express is left as typed.
func (dp *DatePicker[D]) expandShortcut() {
	value, ok := ResolveShortcut(dp.pipeline.Adapter(), dp.textInput.Value())
	if !ok {
		return
	}
	text, err := dp.pipeline.InputText(value)
	if err != nil {
		return
	}
	dp.textInput.SetValue(text)
	dp.textInput.CursorEnd()
	dp.pipeline.OnUserInput(text)
}

// ErrorText describes why the current input is not acceptable. Empty input
// is only reported after the user tried to submit it, and a pending
// shortcut is not reported as a parse failure.
func (dp *DatePicker[D]) ErrorText() string {
	err := dp.pipeline.Validity().Err()
	switch {
	case errors.Is(err, pipeline.ErrEmpty):
		if !dp.submitted {
			return ""
		}
	case errors.Is(err, pipeline.ErrParse):
		if _, ok := ResolveShortcut(dp.pipeline.Adapter(), dp.textInput.Value()); ok {
			return ""
		}
	}
	return ValidationMessage(dp.pipeline)
}

// ValidationMessage describes the pipeline's first failing check for a
// user. Parse failures and constraint failures get different messages.
// It returns "" when the pipeline is valid.
func ValidationMessage[D any](p *pipeline.Pipeline[D]) string {
	v := p.Validity()
	err := v.Err()
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pipeline.ErrEmpty):
		return "Please enter a date"
	case errors.Is(err, pipeline.ErrParse):
		return "invalid date"
	case errors.Is(err, pipeline.ErrFilter):
		return "date not allowed"
	}

	a := p.Adapter()
	display := p.Formats().Display.DateInput
	if v.MinError != nil {
		return "date out of range (before " + a.Format(v.MinError.Bound, display) + ")"
	}
	return "date out of range (after " + a.Format(v.MaxError.Bound, display) + ")"
}

// Preview describes the parsed value, or the date a shortcut stands for
func (dp *DatePicker[D]) Preview() string {
	a := dp.pipeline.Adapter()
	label := dp.pipeline.Formats().Display.DateA11yLabel

	if value, ok := ResolveShortcut(a, dp.textInput.Value()); ok {
		return a.Format(value, label) + " (" + Describe(a, value, label) + ", Tab to use)"
	}
	value, ok := dp.pipeline.Value()
	if !ok {
		return ""
	}
	return dp.pipeline.A11yLabel() + " (" + Describe(a, value, label) + ")"
}

// View renders the date picker
func (dp *DatePicker[D]) View() string {
	if !dp.visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(datePickerTitleStyle.Render(dp.title) + "\n\n")
	b.WriteString("Date: " + dp.textInput.View() + "\n")

	// Preview or error
	if msg := dp.ErrorText(); msg != "" {
		b.WriteString(datePickerErrorStyle.Render("✗ "+msg) + "\n")
	} else if preview := dp.Preview(); preview != "" {
		b.WriteString(datePickerPreviewStyle.Render("→ "+preview) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(datePickerHelpStyle.Render(datePickerHelp))

	return datePickerBoxStyle.Width(dp.width).Render(b.String())
}
