package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeBiancalana/datefield/internal/logger"
	"github.com/MikeBiancalana/datefield/internal/perf"
	"github.com/MikeBiancalana/datefield/internal/sync"
)

type configChangedMsg struct {
	event sync.ConfigChangeEvent
}

// waitForConfigChange waits for the next event from the watcher. The
// returned command yields nil once the watcher is stopped.
func (m *Model[D]) waitForConfigChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		event, ok := <-changes
		if !ok {
			return nil
		}
		return configChangedMsg{event: event}
	}
}

// handleConfigChanged rebuilds the pipeline from reloaded settings. The
// value entered so far carries over to the new pipeline. A failed reload
// leaves the current pipeline in place.
func (m *Model[D]) handleConfigChanged(msg configChangedMsg) (tea.Model, tea.Cmd) {
	event := msg.event
	logger.Debug("tui: handling configChangedMsg", "path", event.FilePath)

	if event.Err != nil {
		logger.Warn("tui: config reload failed", "path", event.FilePath, "error", event.Err)
		m.setStatus("config reload failed: "+event.Err.Error(), true)
		return m, m.waitForConfigChange()
	}

	timer := perf.NewTimer("tui.rebuildPipeline", logger.GetLogger(), 50)
	p, err := m.build(event.Settings)
	timer.Stop()
	if err != nil {
		logger.Warn("tui: failed to rebuild pipeline", "error", err)
		m.setStatus("config rejected: "+err.Error(), true)
		return m, m.waitForConfigChange()
	}

	m.picker.SetPipeline(p)
	m.setStatus("config reloaded ("+event.Settings.Locale+", "+event.Settings.Adapter+")", false)
	return m, m.waitForConfigChange()
}
