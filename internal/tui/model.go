package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeBiancalana/datefield/internal/config"
	"github.com/MikeBiancalana/datefield/internal/pipeline"
	"github.com/MikeBiancalana/datefield/internal/sync"
	"github.com/MikeBiancalana/datefield/internal/tui/components"
)

const (
	minPickerWidth = 30
	maxPickerWidth = 60
)

// PipelineBuilder builds a pipeline for the given settings. The model calls
// it again whenever the watcher reports new settings.
type PipelineBuilder[D any] func(config.Settings) (*pipeline.Pipeline[D], error)

// Model is the root model for picking a single date. It quits once the
// user confirms a value or cancels.
type Model[D any] struct {
	picker    *components.DatePicker[D]
	statusBar *components.StatusBar
	build     PipelineBuilder[D]
	watcher   *sync.Watcher

	width int

	picked    *components.DatePickedMsg[D]
	cancelled bool
	quitting  bool
}

// NewModel creates a model hosting a date picker over p
func NewModel[D any](title string, p *pipeline.Pipeline[D]) *Model[D] {
	return &Model[D]{
		picker:    components.NewDatePicker(title, p),
		statusBar: components.NewStatusBar("ctrl+c: quit"),
	}
}

// WithReload makes the model rebuild its pipeline with build whenever w
// reports a configuration change. The model owns w from then on.
func (m *Model[D]) WithReload(build PipelineBuilder[D], w *sync.Watcher) *Model[D] {
	m.build = build
	m.watcher = w
	return m
}

// Init shows the picker and starts watching for configuration changes
func (m *Model[D]) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Show()}

	if m.watcher != nil && m.build != nil {
		if err := m.watcher.Start(); err != nil {
			m.setStatus("config reload disabled: "+err.Error(), true)
			m.watcher = nil
		} else {
			cmds = append(cmds, m.waitForConfigChange())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles incoming messages
func (m *Model[D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.picker.SetWidth(pickerWidth(msg.Width))
		m.statusBar.SetWidth(pickerWidth(msg.Width))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, m.quit()
		}

	case components.DatePickedMsg[D]:
		m.picked = &msg
		return m, m.quit()

	case components.DatePickerCancelMsg:
		m.cancelled = true
		return m, m.quit()

	case components.DatePickerOpenedMsg, components.DatePickerClosedMsg:
		return m, nil

	case configChangedMsg:
		return m.handleConfigChanged(msg)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// View renders the picker and a status line
func (m *Model[D]) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	b.WriteString("\n")
	return b.String()
}

// Picked returns the confirmed value and its display text
func (m *Model[D]) Picked() (D, string, bool) {
	if m.picked == nil {
		var zero D
		return zero, "", false
	}
	return m.picked.Value, m.picked.Text, true
}

// Cancelled reports whether the user left without confirming a value
func (m *Model[D]) Cancelled() bool {
	return m.cancelled
}

// Pipeline returns the pipeline currently driven by the picker
func (m *Model[D]) Pipeline() *pipeline.Pipeline[D] {
	return m.picker.Pipeline()
}

func (m *Model[D]) setStatus(text string, isErr bool) {
	m.statusBar.SetMessage(text, isErr)
}

func (m *Model[D]) quit() tea.Cmd {
	m.quitting = true
	if m.watcher != nil {
		m.watcher.Stop()
	}
	return tea.Quit
}

func pickerWidth(termWidth int) int {
	w := termWidth - 4
	if w > maxPickerWidth {
		return maxPickerWidth
	}
	if w < minPickerWidth {
		return minPickerWidth
	}
	return w
}
