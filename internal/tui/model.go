// Package tui is the interactive task monitor: one tab per task type, each
// showing a live undone list and a done list with bulk actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/report"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// Options configure the root model.
type Options struct {
	Types     []string
	Server    string
	Interval  time.Duration
	Recorder  tasks.Recorder
	ReportDir string
	Theme     string
	Logger    *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctx       context.Context
	views     []*TypeView
	active    int
	server    string
	reportDir string
	logger    *slog.Logger

	registry *HandlerRegistry
	help     help.Model
	spinner  spinner.Model
	theme    Theme

	statusMessage string
	statusIsError bool
	width         int
	height        int
	now           func() time.Time
}

func New(ctx context.Context, svc taskapi.Service, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Types) == 0 {
		opts.Types = config.DefaultTaskTypes
	}
	if opts.Interval <= 0 {
		opts.Interval = config.PollInterval
	}
	SetTheme(opts.Theme)

	listOpts := []tasks.Option{
		tasks.WithInterval(opts.Interval),
		tasks.WithLogger(opts.Logger),
	}
	if opts.Recorder != nil {
		listOpts = append(listOpts, tasks.WithRecorder(opts.Recorder))
	}
	views := make([]*TypeView, 0, len(opts.Types))
	for _, typ := range opts.Types {
		views = append(views, NewTypeView(svc, typ, listOpts...))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = CurrentTheme.Highlight

	m := Model{
		ctx:       ctx,
		views:     views,
		server:    opts.Server,
		reportDir: opts.ReportDir,
		logger:    opts.Logger,
		registry:  defaultRegistry(),
		help:      help.New(),
		spinner:   s,
		theme:     CurrentTheme,
		now:       time.Now,
	}
	return m
}

// Active returns the view of the selected tab.
func (m Model) Active() *TypeView {
	return m.views[m.active]
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Active().Mount(m.ctx))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		next, cmd, _ := m.registry.Handle(m, msg)
		return next, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case pollMsg:
		if v := m.view(msg.taskType); v != nil {
			return m, v.Poll(msg)
		}
		return m, nil
	case refreshedMsg:
		return m.handleRefreshed(msg), nil
	case actionDoneMsg:
		return m.handleActionDone(msg), nil
	case reportSavedMsg:
		if msg.err != nil {
			m.setError("export report", msg.err)
		} else {
			m.setStatus("Report saved to " + msg.path)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) view(taskType string) *TypeView {
	for _, v := range m.views {
		if v.Type() == taskType {
			return v
		}
	}
	return nil
}

func (m Model) handleRefreshed(msg refreshedMsg) Model {
	if msg.err == nil || errors.Is(msg.err, context.Canceled) {
		return m
	}
	m.setError(fmt.Sprintf("refresh %s/%s", msg.taskType, msg.done), msg.err)
	return m
}

func (m Model) handleActionDone(msg actionDoneMsg) Model {
	if msg.err != nil {
		m.setError(fmt.Sprintf("%s %s", msg.action, msg.taskType), msg.err)
		return m
	}
	if msg.action == config.ActionClear {
		m.setStatus(fmt.Sprintf("Cleared finished %s tasks", msg.taskType))
		return m
	}
	m.setStatus(fmt.Sprintf("%s %s: %d tasks", msg.action, msg.taskType, msg.result.Succeeded()))
	return m
}

func (m *Model) setStatus(s string) {
	m.statusMessage = s
	m.statusIsError = false
}

func (m *Model) setError(op string, err error) {
	util.LogError(m.logger, op, err)
	m.statusMessage = fmt.Sprintf("%s: %v", op, err)
	m.statusIsError = true
}

// switchTab unmounts the current view and mounts the one at idx.
func (m Model) switchTab(idx int) (Model, tea.Cmd) {
	n := len(m.views)
	idx = ((idx % n) + n) % n
	if idx == m.active {
		return m, nil
	}
	m.Active().Unmount()
	m.active = idx
	m.statusMessage = ""
	m.statusIsError = false
	return m, m.Active().Mount(m.ctx)
}

func (m Model) exportReport() tea.Cmd {
	sections := make([]report.Section, 0, len(m.views))
	for _, v := range m.views {
		sections = append(sections, report.Section{
			Type:   v.Type(),
			Undone: v.Undone.list.Tasks(),
			Done:   v.Done.list.Tasks(),
		})
	}
	return saveReportCmd(m.reportDir, m.now(), sections)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	v := m.Active()
	b.WriteString(v.Undone.View(m.theme, m.spinner.View(), m.width))
	b.WriteString("\n")
	b.WriteString(v.Done.View(m.theme, m.spinner.View(), m.width))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return m.theme.Base.Render(b.String())
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render(config.AppName)
	if m.server != "" {
		title += m.theme.Dim.Render("  " + m.server)
	}
	tabs := make([]string, 0, len(m.views))
	for i, v := range m.views {
		style := m.theme.Tab
		if i == m.active {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(v.Type()))
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	var status string
	if m.statusMessage != "" {
		style := m.theme.Status
		if m.statusIsError {
			style = m.theme.StatusError
		}
		width := m.width
		if width <= 0 {
			width = 120
		}
		status = style.Render(util.Truncate(util.SingleLine(m.statusMessage), width, config.TruncationSuffix)) + "\n"
	}
	updated := m.Active().Undone.list.UpdatedAt()
	stamp := "never"
	if !updated.IsZero() {
		stamp = updated.Format("15:04:05")
	}
	return status + m.theme.Dim.Render("updated "+stamp) + "\n" + m.help.View(m.registry)
}
