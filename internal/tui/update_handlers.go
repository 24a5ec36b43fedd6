package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Handler:  handleQuit,
		Priority: 100,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next type")),
		Handler:  handleNextTab,
		Priority: 90,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev type")),
		Handler:  handlePrevTab,
		Priority: 90,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh done")),
		Handler:  handleRefreshDone,
		Priority: 50,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Handler:  handleClear,
		Priority: 50,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear succeeded")),
		Handler:  handleClearComplete,
		Priority: 50,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "retry failed")),
		Handler:  handleRetryFailed,
		Priority: 50,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
		Handler:  handleExport,
		Priority: 10,
		Full:     true,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Handler:  handleToggleHelp,
		Priority: 0,
	})
	return r
}

func handleQuit(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	m.Active().Unmount()
	return m, tea.Quit, true
}

func handleNextTab(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	next, cmd := m.switchTab(m.active + 1)
	return next, cmd, true
}

func handlePrevTab(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	next, cmd := m.switchTab(m.active - 1)
	return next, cmd, true
}

func handleRefreshDone(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	return m, m.Active().RefreshDone(), true
}

// Bulk actions run on the program context, not the mount context, so that
// switching tabs does not abort half-dispatched deletes.

func handleClear(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	l := m.Active().Done.list
	if l.Loading().Clear {
		return m, nil, true
	}
	m.setStatus("Clearing finished " + l.Type() + " tasks...")
	return m, clearCmd(m.ctx, l), true
}

func handleClearComplete(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	l := m.Active().Done.list
	if l.Loading().ClearComplete {
		return m, nil, true
	}
	m.setStatus("Deleting succeeded " + l.Type() + " tasks...")
	return m, clearCompleteCmd(m.ctx, l), true
}

func handleRetryFailed(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	l := m.Active().Done.list
	if l.Loading().RetryFailed {
		return m, nil, true
	}
	m.setStatus("Retrying failed " + l.Type() + " tasks...")
	return m, retryFailedCmd(m.ctx, l), true
}

func handleExport(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.reportDir == "" {
		m.statusMessage = "No report directory configured"
		m.statusIsError = true
		return m, nil, true
	}
	return m, m.exportReport(), true
}

func handleToggleHelp(m Model, _ tea.KeyMsg) (Model, tea.Cmd, bool) {
	m.help.ShowAll = !m.help.ShowAll
	return m, nil, true
}
